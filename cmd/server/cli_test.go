package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/ai-dashboard/internal/pixels"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeGrayPNG(t *testing.T, path string, w, h int, pix ...uint8) {
	t.Helper()
	g := image.NewGray(image.Rect(0, 0, w, h))
	copy(g.Pix, pix)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, g))
}

func TestKernelFromFlags(t *testing.T) {
	k, err := kernelFromFlags("", "")
	require.NoError(t, err)
	assert.Equal(t, pixels.IdentityKernel(3), k)

	k, err = kernelFromFlags("", "sharpen")
	require.NoError(t, err)
	assert.Equal(t, 5.0, k.Weights[4])

	k, err = kernelFromFlags("1,x,1, 1,1,1, 1,1,1", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, k.Weights[1])
	assert.Equal(t, 8.0, k.Sum())

	_, err = kernelFromFlags("1,2,3,4", "")
	assert.Error(t, err)
	_, err = kernelFromFlags("", "nope")
	assert.Error(t, err)
}

func TestFilterCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeGrayPNG(t, in, 2, 2, 10, 20, 30, 40)

	stdout, err := run(t, "filter", "--preset", "identity", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2x2")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := pixels.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 20, 30, 40}, img.Pix)
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeGrayPNG(t, in, 2, 1, 10, 30)

	stdout, err := run(t, "normalize", in, filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "gray")
	assert.Contains(t, stdout, "20.00")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p := filepath.Join(dir, name)
		writeGrayPNG(t, p, 2, 1, 0, 100)
		inputs = append(inputs, p)
	}
	outDir := filepath.Join(dir, "results")

	stdout, err := run(t, append([]string{"batch", "--op", "normalize", "--out", outDir, "--workers", "2"}, inputs...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Processed 3 of 3 images")

	for _, name := range []string{"a_normalize.png", "b_normalize.png", "c_normalize.png"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestBatchCommandStopsOnBadInput(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	_, err := run(t, "batch", "--op", "filter", "--out", filepath.Join(dir, "out"), "--workers", "1", bad)
	assert.ErrorIs(t, err, pixels.ErrUnsupportedFormat)
}

func TestBatchCommandRejectsCollidingOutputs(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "one", "cat.png")
	second := filepath.Join(dir, "two", "cat.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(first), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0o755))
	writeGrayPNG(t, first, 2, 1, 0, 100)
	writeGrayPNG(t, second, 2, 1, 0, 100)
	outDir := filepath.Join(dir, "results")

	_, err := run(t, "batch", "--op", "normalize", "--out", outDir, "--workers", "2", first, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cat_normalize.png")
	assert.NoDirExists(t, outDir)
}

func TestBatchOutputs(t *testing.T) {
	got, err := batchOutputs("out", []string{"a/x.png", "b/y.png"}, "filter")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("out", "x_filter.png"), filepath.Join("out", "y_filter.png")}, got)

	_, err = batchOutputs("out", []string{"a/x.png", "b/x.bmp"}, "filter")
	assert.Error(t, err)
}

func TestBatchOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "cat_filter.png"), batchOutputPath("out", "/tmp/pics/cat.jpeg", "filter"))
}

func TestTokensCommand(t *testing.T) {
	stdout, err := run(t, "tokens", "--method", "words_only", "the cat", "the dog 42")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Tokens:              5")
	assert.Contains(t, stdout, "words_only tokens: 4")
	assert.Contains(t, stdout, "the | cat | the | dog")
}

func TestOnehotCommand(t *testing.T) {
	stdout, err := run(t, "onehot", "--select", "Dog", "cat,dog", "bird")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Vocabulary (3 words): bird, cat, dog")
	assert.Contains(t, stdout, "dog (index 2): [0 0 1]")

	_, err = run(t, "onehot", "--select", "", "lonely")
	assert.Error(t, err)
}
