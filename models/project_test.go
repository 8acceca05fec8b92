package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectType_Valid(t *testing.T) {
	for _, pt := range []ProjectType{"", ProjectTypeRoot, ProjectTypeSubProject} {
		assert.True(t, pt.Valid(), "%q", pt)
	}
	for _, pt := range []ProjectType{"root", "Root", "sub_project", "FOO"} {
		assert.False(t, pt.Valid(), "%q", pt)
		assert.False(t, pt.IsRoot(), "%q", pt)
	}
}

func TestProjectTypeBehavior_Valid(t *testing.T) {
	for _, b := range []ProjectTypeBehavior{"", BehaviorLeafy, BehaviorNormal} {
		assert.True(t, b.Valid(), "%q", b)
	}
	for _, b := range []ProjectTypeBehavior{"leafy", "Normal", "CONTAINER"} {
		assert.False(t, b.Valid(), "%q", b)
	}
}
