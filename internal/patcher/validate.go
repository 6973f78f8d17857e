package patcher

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// CheckYAML loads every document in content and returns the first error.
func CheckYAML(content string) error {
	dec := yaml.NewDecoder(strings.NewReader(content))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// CheckStillValid fails when original loads as YAML but fixed does not.
// Input that was already broken is not held against the fixes.
func CheckStillValid(original, fixed string) error {
	if CheckYAML(original) != nil {
		return nil
	}
	if err := CheckYAML(fixed); err != nil {
		return fmt.Errorf("fixed content is not valid YAML: %w", err)
	}
	return nil
}
