package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// ListBuiltinScenes returns metadata for every built-in scene
func ListBuiltinScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		b := builtins[name]
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        name,
			DisplayName: b.displayName,
			Description: b.description,
			Type:        "builtin",
		})
	}
	return scenes
}

// ListJSONScenes scans dir for .json scene files. A missing directory yields
// an empty list.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			// Skip unreadable files so one bad scene does not hide the rest
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the name and description of a JSON scene file,
// falling back to the file name
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("json:%s", nameWithoutExt),
		Name:        nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return sceneInfo, err
	}

	if header.Name != "" {
		sceneInfo.DisplayName = header.Name
	}
	sceneInfo.Description = header.Description
	return sceneInfo, nil
}

// ListAllScenes returns the built-in scenes followed by the JSON scenes in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	jsonScenes, err := ListJSONScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list JSON scenes: %w", err)
	}
	return append(ListBuiltinScenes(), jsonScenes...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-trio" -> "Glass Trio"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
