package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ippcode23/lang/frame"
	"ippcode23/lang/values"
	"ippcode23/lang/vmerrors"
)

func TestDefineReadWrite(t *testing.T) {
	s := frame.NewStore()
	ref := frame.Ref{Scope: frame.Global, Name: "x"}

	require.NoError(t, s.Define(ref))

	v, err := s.Read(ref)
	require.NoError(t, err)
	assert.True(t, values.IsUndefined(v))

	require.NoError(t, s.Write(ref, values.Int(42)))
	v, err = s.Read(ref)
	require.NoError(t, err)
	assert.Equal(t, values.Int(42), v)
}

func TestDefineTwiceFails(t *testing.T) {
	s := frame.NewStore()
	ref := frame.Ref{Scope: frame.Global, Name: "x"}
	require.NoError(t, s.Define(ref))

	err := s.Define(ref)
	require.Error(t, err)
	assert.Equal(t, 52, vmerrors.ExitCode(err))
}

func TestUndeclaredAccessFails(t *testing.T) {
	s := frame.NewStore()
	ref := frame.Ref{Scope: frame.Global, Name: "missing"}

	_, err := s.Read(ref)
	require.Error(t, err)
	assert.Equal(t, 54, vmerrors.ExitCode(err))

	err = s.Write(ref, values.Int(1))
	require.Error(t, err)
	assert.Equal(t, 54, vmerrors.ExitCode(err))
}

func TestLocalAndTemporaryFrameLifecycle(t *testing.T) {
	s := frame.NewStore()
	assert.False(t, s.HasLocalFrame())
	assert.False(t, s.HasTemporaryFrame())

	lfRef := frame.Ref{Scope: frame.Local, Name: "a"}
	_, err := s.Read(lfRef)
	require.Error(t, err)
	assert.Equal(t, 55, vmerrors.ExitCode(err))

	tfRef := frame.Ref{Scope: frame.Temporary, Name: "a"}
	err = s.Define(tfRef)
	require.Error(t, err)
	assert.Equal(t, 55, vmerrors.ExitCode(err))

	s.CreateTemporary()
	assert.True(t, s.HasTemporaryFrame())
	require.NoError(t, s.Define(tfRef))
	require.NoError(t, s.Write(tfRef, values.NewStr("hi")))

	require.NoError(t, s.PushFrame())
	assert.True(t, s.HasLocalFrame())
	assert.False(t, s.HasTemporaryFrame())

	v, err := s.Read(lfRef)
	require.NoError(t, err)
	assert.Equal(t, "hi", v.String())

	require.NoError(t, s.PopFrame())
	assert.False(t, s.HasLocalFrame())
	assert.True(t, s.HasTemporaryFrame())

	v, err = s.Read(tfRef)
	require.NoError(t, err)
	assert.Equal(t, "hi", v.String())
}

func TestPushPopFrameRoundTrips(t *testing.T) {
	s := frame.NewStore()
	s.CreateTemporary()
	require.NoError(t, s.PushFrame())
	require.Equal(t, 1, s.LocalDepth())
	require.NoError(t, s.PopFrame())
	require.Equal(t, 0, s.LocalDepth())
}

func TestPushFrameWithoutTemporaryFails(t *testing.T) {
	s := frame.NewStore()
	err := s.PushFrame()
	require.Error(t, err)
	assert.Equal(t, 55, vmerrors.ExitCode(err))
}

func TestPopFrameWithoutLocalFails(t *testing.T) {
	s := frame.NewStore()
	err := s.PopFrame()
	require.Error(t, err)
	assert.Equal(t, 55, vmerrors.ExitCode(err))
}

func TestCallStack(t *testing.T) {
	s := frame.NewStore()
	_, err := s.PopCall()
	require.Error(t, err)
	assert.Equal(t, 56, vmerrors.ExitCode(err))

	s.PushCall(7)
	addr, err := s.PopCall()
	require.NoError(t, err)
	assert.Equal(t, 7, addr)
}

func TestDataStackRoundTrip(t *testing.T) {
	s := frame.NewStore()
	_, err := s.PopData()
	require.Error(t, err)
	assert.Equal(t, 56, vmerrors.ExitCode(err))

	s.PushData(values.Int(9))
	v, err := s.PopData()
	require.NoError(t, err)
	assert.Equal(t, values.Int(9), v)
}
