package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCV = "Email: jane@example.com\nEducation: Bachelor degree, University of Cape Town\nExperience: worked as a developer\nSkills: Go"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand_JSON(t *testing.T) {
	path := writeFile(t, "cv.txt", testCV)

	out, err := execute(t, "score", path, "--seed", "3", "--json", "--job-description", "Golang developer in Cape Town")
	require.NoError(t, err)

	var res scoreOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "cv.txt", res.File)
	assert.Equal(t, 16, res.WordCount)
	assert.GreaterOrEqual(t, res.Score.Overall, 50)
	assert.LessOrEqual(t, res.Score.Overall, 98)
	require.NotNil(t, res.JobMatch)
	assert.Contains(t, res.JobMatch.Matched, "developer")
}

func TestScoreCommand_SeedIsReproducible(t *testing.T) {
	path := writeFile(t, "cv.txt", testCV)

	first, err := execute(t, "score", path, "--seed", "11", "--json")
	require.NoError(t, err)
	second, err := execute(t, "score", path, "--seed", "11", "--json")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScoreCommand_JobFileAndText(t *testing.T) {
	path := writeFile(t, "cv.txt", testCV)
	job := writeFile(t, "job.txt", "Python Django developer")

	out, err := execute(t, "score", path, "--seed", "1", "--job-file", job)
	require.NoError(t, err)
	assert.Contains(t, out, "Overall score:")
	assert.Contains(t, out, "Job match:")
	assert.Contains(t, out, "python")
}

func TestScoreCommand_RejectsUnsupportedFile(t *testing.T) {
	path := writeFile(t, "cv.png", "png")

	_, err := execute(t, "score", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestScoreCommand_UnknownMode(t *testing.T) {
	path := writeFile(t, "cv.txt", testCV)

	_, err := execute(t, "score", path, "--mode", "ocr")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", writeFile(t, "cv.docx", "x"))
	require.NoError(t, err)
	assert.Contains(t, out, "cv.docx: ok")

	_, err = execute(t, "validate", writeFile(t, "cv.zip", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
