package consumer

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

func testMarkers() pattern.Markers {
	return pattern.Markers{
		Success: "Data successfully decrypted",
		Normal:  "Failed to decrypt data",
	}
}

// fakeDevice returns a device whose adb calls are replaced by a shell
// script, recording the arguments each call received.
func fakeDevice(t *testing.T, script string) (*Device, *[][]string) {
	t.Helper()
	var calls [][]string
	d := &Device{
		timeout: 5 * time.Second,
		markers: testMarkers(),
		log:     testLogger(),
		command: func(ctx context.Context, name string, arg ...string) *exec.Cmd {
			calls = append(calls, append([]string{name}, arg...))
			return exec.CommandContext(ctx, "sh", "-c", script)
		},
	}
	return d, &calls
}

func TestDevice_CommandArgs(t *testing.T) {
	d := &Device{}
	assert.Equal(t,
		[]string{"shell", "twrp", "decrypt", "1269"},
		d.commandArgs(pattern.Path{"1", "2", "6", "9"}))

	d.echo = true
	assert.Equal(t,
		[]string{"shell", "echo 'gridlock attempting 1269' && twrp decrypt 1269"},
		d.commandArgs(pattern.Path{"1", "2", "6", "9"}))
}

func TestDevice_OfferSuccess(t *testing.T) {
	d, calls := fakeDevice(t, `printf 'Attempting to decrypt data partition via command line.\nData successfully decrypted, new block device: /dev/block/dm-0\n'`)

	out, err := d.Offer(context.Background(), pattern.Path{"1", "2", "6", "9"}, 2)
	require.NoError(t, err)
	assert.True(t, out.Matched)
	assert.Equal(t, pattern.CodeSuccess, out.Code)
	assert.True(t, out.Result.Equal(pattern.Path{"1", "2", "6", "9"}))
	assert.Contains(t, out.Info, "successfully decrypted")

	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"adb", "shell", "twrp", "decrypt", "1269"}, (*calls)[0])
}

func TestDevice_OfferFailure(t *testing.T) {
	d, _ := fakeDevice(t, `printf 'Attempting to decrypt data partition via command line.\nFailed to decrypt data.\n'`)

	out, err := d.Offer(context.Background(), pattern.Path{"1", "4", "8", "9"}, 2)
	require.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Equal(t, pattern.CodeFailure, out.Code)
}

func TestDevice_OfferUnexpectedOutput(t *testing.T) {
	d, _ := fakeDevice(t, `printf 'error: device offline\n'`)

	out, err := d.Offer(context.Background(), pattern.Path{"1", "2"}, 0)
	require.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Equal(t, pattern.CodeError, out.Code)
	assert.Equal(t, "error: device offline", out.Info)
}

// TestDevice_OfferTimeout pins the transient-timeout contract: a hung
// device call yields a non-matching outcome, not an error that would end
// the search.
func TestDevice_OfferTimeout(t *testing.T) {
	d, _ := fakeDevice(t, `sleep 10`)
	d.timeout = 50 * time.Millisecond

	out, err := d.Offer(context.Background(), pattern.Path{"1", "2"}, 0)
	require.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Equal(t, pattern.CodeTimeout, out.Code)
	assert.Contains(t, out.Info, "timed out")
}

func TestDevice_OfferShellFailureIsTransient(t *testing.T) {
	d, _ := fakeDevice(t, `exit 1`)

	out, err := d.Offer(context.Background(), pattern.Path{"1", "2"}, 0)
	require.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Equal(t, pattern.CodeError, out.Code)
}

func TestDevice_OfferOuterCancellation(t *testing.T) {
	d, _ := fakeDevice(t, `sleep 10`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := d.Offer(ctx, pattern.Path{"1", "2"}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDevice_OfferBinaryMissing(t *testing.T) {
	d := &Device{
		timeout: time.Second,
		markers: testMarkers(),
		log:     testLogger(),
		command: func(ctx context.Context, name string, arg ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "gridlock-no-such-binary")
		},
	}

	_, err := d.Offer(context.Background(), pattern.Path{"1", "2"}, 0)
	assert.ErrorIs(t, err, pattern.ErrConsumerUnavailable)
}

func TestDevice_ProgressLines(t *testing.T) {
	var buf bytes.Buffer
	d, _ := fakeDevice(t, `printf 'Failed to decrypt data.\n'`)
	d.progress = &buf

	_, err := d.Offer(context.Background(), pattern.Path{"1", "2", "6", "9"}, 4)
	require.NoError(t, err)
	assert.Equal(t, "path 1/4 (25.0%): 1-2-6-9 - FAILED\n", buf.String())
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, `a\nb`, flatten("a\nb\n"))
	assert.Equal(t, "plain", flatten("  plain  "))
}
