package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrolPaul/call-center/internal/dispatcher"
	"github.com/KrolPaul/call-center/internal/operator"
	"github.com/KrolPaul/call-center/internal/queue"
	"github.com/KrolPaul/call-center/internal/randgen"

	"github.com/KrolPaul/call-center/internal/cdr"
	"github.com/KrolPaul/call-center/internal/clock"
)

func TestDefault_IsValid(t *testing.T) {
	def := Default()
	assert.NoError(t, Validate(def))
	assert.Equal(t, uint(1), def.MinResponseTime)
	assert.True(t, def.MaxResponseTime >= def.MinResponseTime)
}

func TestValidate_RejectsInvertedWindow(t *testing.T) {
	cfg := Default()
	cfg.MinResponseTime = 10
	cfg.MaxResponseTime = 1
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsZeroOperators(t *testing.T) {
	cfg := Default()
	cfg.NOperators = 0
	assert.Error(t, Validate(cfg))
}

func TestLoad_MissingPathFallsBackToDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnreadableFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileMergesUnderDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "call-center.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nOperators": 7}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 7, cfg.NOperators)
	assert.Equal(t, Default().MinResponseTime, cfg.MinResponseTime, "unset fields keep the default")
}

func TestLoad_MalformedJSONFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "call-center.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not valid json`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func newTestDispatcherForApply() *dispatcher.Dispatcher {
	q := queue.New[cdr.CDR, string](4, true)
	pool := operator.New(1)
	return dispatcher.New(dispatcher.Config{
		MinResponseTime: 1, MaxResponseTime: 1,
		MinCallDuration: 1, MaxCallDuration: 1,
		NOperators: 1, MaxQueueSize: 4, RejectRepeated: true,
	}, q, pool, clock.New(), randgen.NewSeeded(1), cdr.SinkFunc(func(cdr.CDR) {}))
}

func TestApply_PushesEveryFieldToDispatcher(t *testing.T) {
	d := newTestDispatcherForApply()
	cfg := Default()
	cfg.NOperators = 9
	cfg.MaxCallQueueSize = 99

	Apply(d, cfg)

	assert.EqualValues(t, 9, d.GetNOperators())
	assert.Equal(t, 99, d.GetMaxQueueSize())
	assert.Equal(t, cfg.RejectRepeatedCalls, d.GetRejectRepeatedCalls())
}
