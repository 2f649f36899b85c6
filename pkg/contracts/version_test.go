package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, APIVersion, info.APIVersion)
}

func TestGetVersionString(t *testing.T) {
	old := GitCommit
	t.Cleanup(func() { GitCommit = old })

	GitCommit = ""
	assert.True(t, strings.HasPrefix(GetVersionString(), Version+" ("))
	assert.NotContains(t, GetVersionString(), "commit")

	GitCommit = "abc123"
	assert.Contains(t, GetVersionString(), "commit abc123")
}
