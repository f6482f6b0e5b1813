// Package prompts holds the LLM prompt templates used by profile extraction and diploma
// equivalence. Prompt files are JSON objects of key -> template, embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

type library map[string]map[string]string

// load parses every embedded prompt file once.
var load = sync.OnceValues(func() (library, error) {
	return parseLibrary(promptFiles)
})

func parseLibrary(fsys fs.FS) (library, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}
	lib := make(library, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		lib[name] = prompts
	}
	return lib, nil
}

// Get retrieves a prompt by filename (e.g. "parsing.json") and key.
func Get(filename, key string) (string, error) {
	lib, err := load()
	if err != nil {
		return "", err
	}
	prompts, ok := lib[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts that ship with the binary; a miss is a programming error.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Render executes a prompt as a text/template. Every {{.Field}} must be present in data.
func Render(filename, key string, data any) (string, error) {
	text, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt %s/%s: %w", filename, key, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return sb.String(), nil
}

// List returns the prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	lib, err := load()
	if err != nil {
		return nil, err
	}
	prompts, ok := lib[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
