package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsJenkinsfileMatchesConfiguredPatterns(t *testing.T) {
	w := New(nil, nil, []string{"Jenkinsfile", "**/*.jenkinsfile"})

	assert.True(t, w.IsJenkinsfile("Jenkinsfile"))
	assert.True(t, w.IsJenkinsfile("pipelines/deploy.jenkinsfile"))
	assert.False(t, w.IsJenkinsfile("src/main/groovy/Greeter.groovy"))
}

func TestAddSourceRootReportsRootsChanged(t *testing.T) {
	w := New(nil, nil, nil)
	change := w.AddSourceRoot("/repo/src")
	assert.Equal(t, RootsChanged, change.Kind)
	assert.Contains(t, w.SourceRoots, "/repo/src")
}

func TestSetClasspathReportsClasspathChanged(t *testing.T) {
	w := New(nil, nil, nil)
	change := w.SetClasspath([]string{"/libs/a.jar"})
	assert.Equal(t, ClasspathChanged, change.Kind)
	assert.Equal(t, []string{"/libs/a.jar"}, w.Classpath)
}
