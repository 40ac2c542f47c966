package contracts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, DataFormatVersion, info.DataFormat)
	assert.NotEmpty(t, info.Commit)
	assert.Contains(t, info.Platform, "/")
}

func TestBuildInfo_String(t *testing.T) {
	info := BuildInfo{
		Version:    "1.2.3",
		DataFormat: "v1",
		Commit:     "abc1234",
		BuiltAt:    "2024-01-01T00:00:00Z",
		Go:         "go1.22.0",
		Platform:   "linux/amd64",
	}
	s := info.String()
	assert.True(t, strings.HasPrefix(s, "acidentes 1.2.3 (snapshot v1"))
	assert.Contains(t, s, "commit abc1234")
	assert.Contains(t, s, "linux/amd64")
}
