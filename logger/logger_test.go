package logger

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_Noop(t *testing.T) {
	l := &Noop{}

	l.Debugf("debug")
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error")
}

func Test_StdOut(t *testing.T) {
	var result []string
	l := &stdOut{func(msg string) {
		result = append(result, msg)
	}}

	x := struct {
		testField string
	}{"test-field"}
	err := io.ErrClosedPipe

	l.Debugf("%s, %d, %v, %v", "Hello World!", 10, x, err)
	l.Infof("%s, %d, %v, %v", "Привет Мир!", 20, x, err)
	l.Warnf("%s, %d, %v, %v", "こんにちは世界!", 30, x, err)
	l.Errorf("%s, %d, %+v, %v", "¡Hola Mundo!", 40, x, err)
	l.Errorf("empty args")

	assert.Equal(t, 5, len(result))
	assert.Equal(t, "[DEBUG] Hello World!, 10, {test-field}, io: read/write on closed pipe", result[0])
	assert.Equal(t, "[INFO] Привет Мир!, 20, {test-field}, io: read/write on closed pipe", result[1])
	assert.Equal(t, "[WARN] こんにちは世界!, 30, {test-field}, io: read/write on closed pipe", result[2])
	assert.Equal(t, "[ERROR] ¡Hola Mundo!, 40, {testField:test-field}, io: read/write on closed pipe", result[3])
	assert.Equal(t, "[ERROR] empty args", result[4])
}

func Test_Logrus(t *testing.T) {
	var buf bytes.Buffer
	backend := logrus.New()
	backend.SetOutput(&buf)
	backend.SetLevel(logrus.DebugLevel)
	backend.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	l := NewLogrus(backend)
	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	assert.Contains(t, out, "debug 1")
	assert.Contains(t, out, "info 2")
	assert.Contains(t, out, "warn 3")
	assert.Contains(t, out, "error 4")
}
