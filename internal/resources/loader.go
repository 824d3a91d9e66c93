// Package resources reads prompts, menu definitions and image paths from the
// configured resource roots. Loading never fails past this boundary: a
// missing or malformed resource degrades to built-in fallback content.
package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPrompt stands in for any prompt file that cannot be read.
	DefaultPrompt = "You are an experienced AI assistant answering user requests."

	fallbackLabel   = "Start"
	fallbackPayload = "start"
)

type Button struct {
	Label   string
	Payload string
}

// MenuSpec is the normalized menu shape every consumer sees: an ordered list
// of (label, payload) buttons.
type MenuSpec []Button

// FallbackMenu is what LoadMenu returns when the resource is unusable.
func FallbackMenu() MenuSpec {
	return MenuSpec{{Label: fallbackLabel, Payload: fallbackPayload}}
}

type Loader struct {
	PromptsDir string
	MenusDir   string
	ImagesDir  string
	Logger     *slog.Logger
}

func NewLoader(promptsDir, menusDir, imagesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		PromptsDir: promptsDir,
		MenusDir:   menusDir,
		ImagesDir:  imagesDir,
		Logger:     logger,
	}
}

// LoadPrompt returns the trimmed contents of <prompts_dir>/<key>.txt, or the
// built-in default prompt when the file is unreadable.
func (l *Loader) LoadPrompt(key string) string {
	path := filepath.Join(l.PromptsDir, key+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		l.Logger.Error("prompt file unreadable, using default", "key", key, "path", path, "error", err)
		return DefaultPrompt
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		l.Logger.Error("prompt file empty, using default", "key", key, "path", path)
		return DefaultPrompt
	}
	return text
}

// LoadMenu reads <menus_dir>/<key>.json (or <key>.yaml when the JSON file is
// absent) and normalizes it to a MenuSpec. Two source shapes are accepted: a
// list of {text, callback_data} records kept in source order, or a mapping
// payload -> label emitted in sorted-key order. Any failure yields the
// single-button fallback menu.
func (l *Loader) LoadMenu(key string) MenuSpec {
	jsonPath := filepath.Join(l.MenusDir, key+".json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		menu, err := parseMenu(data, json.Unmarshal)
		if err != nil {
			l.Logger.Error("menu file malformed, using fallback", "key", key, "path", jsonPath, "error", err)
			return FallbackMenu()
		}
		return menu
	} else if !errors.Is(err, os.ErrNotExist) {
		l.Logger.Error("menu file unreadable, using fallback", "key", key, "path", jsonPath, "error", err)
		return FallbackMenu()
	}

	yamlPath := filepath.Join(l.MenusDir, key+".yaml")
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		l.Logger.Error("menu file missing, using fallback", "key", key, "error", err)
		return FallbackMenu()
	}
	menu, err := parseMenu(data, yaml.Unmarshal)
	if err != nil {
		l.Logger.Error("menu file malformed, using fallback", "key", key, "path", yamlPath, "error", err)
		return FallbackMenu()
	}
	return menu
}

// ImagePath returns the path of <images_dir>/<key>.jpg when the file exists.
// A missing image is not an error; callers degrade to a text-only send.
func (l *Loader) ImagePath(key string) (string, bool) {
	path := filepath.Join(l.ImagesDir, key+".jpg")
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

type menuEntry struct {
	Text         string `json:"text" yaml:"text"`
	CallbackData string `json:"callback_data" yaml:"callback_data"`
}

func parseMenu(data []byte, unmarshal func([]byte, any) error) (MenuSpec, error) {
	var list []menuEntry
	if err := unmarshal(data, &list); err == nil {
		menu := make(MenuSpec, 0, len(list))
		for _, e := range list {
			if e.Text == "" || e.CallbackData == "" {
				return nil, fmt.Errorf("menu entry missing text or callback_data: %+v", e)
			}
			menu = append(menu, Button{Label: e.Text, Payload: e.CallbackData})
		}
		if len(menu) == 0 {
			return nil, errors.New("menu list is empty")
		}
		return menu, nil
	}

	var mapping map[string]string
	if err := unmarshal(data, &mapping); err != nil {
		return nil, err
	}
	if len(mapping) == 0 {
		return nil, errors.New("menu mapping is empty")
	}
	payloads := make([]string, 0, len(mapping))
	for payload := range mapping {
		payloads = append(payloads, payload)
	}
	sort.Strings(payloads)
	menu := make(MenuSpec, 0, len(payloads))
	for _, payload := range payloads {
		menu = append(menu, Button{Label: mapping[payload], Payload: payload})
	}
	return menu, nil
}
