package logging

import "testing"

type recordingLogger struct {
	lastFormat string
	lastArgs   []interface{}
}

func (r *recordingLogger) Debugf(format string, args ...interface{}) { r.record(format, args) }
func (r *recordingLogger) Infof(format string, args ...interface{})  { r.record(format, args) }
func (r *recordingLogger) Warnf(format string, args ...interface{})  { r.record(format, args) }
func (r *recordingLogger) Errorf(format string, args ...interface{}) { r.record(format, args) }
func (r *recordingLogger) Fatalf(format string, args ...interface{}) { r.record(format, args) }

func (r *recordingLogger) record(format string, args []interface{}) {
	r.lastFormat = format
	r.lastArgs = args
}

func TestSetDefaultOverridesLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	rec := &recordingLogger{}
	SetDefault(rec)

	Default().Errorf("processor %s failed at %d", "abc", 7)

	if rec.lastFormat != "processor %s failed at %d" {
		t.Fatalf("lastFormat = %q, want format string to be recorded", rec.lastFormat)
	}
	if len(rec.lastArgs) != 2 {
		t.Fatalf("lastArgs = %v, want 2 args", rec.lastArgs)
	}
}

func TestDefaultIsNotNil(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil logger at package init")
	}
}
