package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_WrongArgs(t *testing.T) {
	rootCmd.SetArgs([]string{})
	assert.NotNil(t, rootCmd.Execute())
	rootCmd.SetArgs([]string{"a.asm", "b.asm"})
	assert.NotNil(t, rootCmd.Execute())
}

func TestRootCmd_Assemble(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.asm")
	assert.Nil(t, os.WriteFile(path, []byte("START 0\nRSUB\nEND\n"), 0666))
	rootCmd.SetArgs([]string{"--dump=false", path})
	assert.Nil(t, rootCmd.Execute())
	content, err := os.ReadFile(filepath.Join(dir, "prog.obj"))
	assert.Nil(t, err)
	assert.Equal(t, "H        000000 000003\nT 000000 03 4C0000\nE 000000\n", string(content))
}
