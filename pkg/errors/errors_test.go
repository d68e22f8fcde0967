package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "InvalidInput",
			code:    InvalidInput,
			message: "max candidates below target count",
		},
		{
			name:    "OracleExecutionFailed",
			code:    OracleExecutionFailed,
			message: "backend rejected job",
		},
		{
			name:    "BudgetExceeded",
			code:    BudgetExceeded,
			message: "shot budget exhausted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)

			assert.True(t, ok, "should be a custom *Error")
			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())

			// Test nil original error for new errors
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

// TestWrapError tests error wrapping functionality.
func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("connection reset")

	tests := []struct {
		name       string
		err        error
		code       ErrorCode
		wrapMsg    string
		expectNil  bool
		expectCode ErrorCode
	}{
		{
			name:       "Wrap normal error",
			err:        originalErr,
			code:       OracleExecutionFailed,
			wrapMsg:    "oracle evaluation failed",
			expectNil:  false,
			expectCode: OracleExecutionFailed,
		},
		{
			name:      "Wrap nil error",
			err:       nil,
			code:      OracleExecutionFailed,
			wrapMsg:   "oracle evaluation failed",
			expectNil: true,
		},
		{
			name:       "Wrap custom error",
			err:        New(BackendUnavailable, "backend offline"),
			code:       OracleExecutionFailed,
			wrapMsg:    "oracle evaluation failed",
			expectNil:  false,
			expectCode: OracleExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.code, tt.wrapMsg)

			if tt.expectNil {
				assert.Nil(t, wrapped)
				return
			}

			assert.NotNil(t, wrapped)

			ourErr := wrapped.(*Error)
			assert.Equal(t, tt.expectCode, ourErr.Code())
			assert.Contains(t, ourErr.Error(), tt.wrapMsg)

			// Verify original error is preserved
			unwrapped := ourErr.Unwrap()
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), unwrapped.Error())
			}
		})
	}
}

// TestErrorInterfaces tests compliance with Go error interfaces.
func TestErrorInterfaces(t *testing.T) {
	t.Run("errors.Is support", func(t *testing.T) {
		err1 := New(InvalidInput, "first")
		err2 := New(InvalidInput, "second")
		err3 := New(BudgetExceeded, "third")

		assert.True(t, stderrors.Is(err1, err2),
			"Errors with same code should match with Is")
		assert.False(t, stderrors.Is(err1, err3),
			"Errors with different codes should not match with Is")
	})

	t.Run("errors.As support", func(t *testing.T) {
		originalErr := New(OracleExecutionFailed, "original")
		wrappedErr := Wrap(originalErr, Timeout, "wrapped")

		var customErr *Error
		assert.True(t, stderrors.As(wrappedErr, &customErr),
			"Should be able to extract custom error type")
		assert.Equal(t, Timeout, customErr.Code())
	})

	t.Run("error unwrapping", func(t *testing.T) {
		baseErr := stderrors.New("base error")
		wrapped := Wrap(baseErr, OracleExecutionFailed, "wrapped error")

		unwrapped := stderrors.Unwrap(wrapped)
		assert.Equal(t, baseErr.Error(), unwrapped.Error())
	})
}

// TestErrorString tests the string representation of errors.
func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "Simple error",
			err:      New(InvalidInput, "space size must be positive"),
			contains: []string{"space size must be positive"},
		},
		{
			name: "Wrapped error",
			err: Wrap(
				stderrors.New("queue rejection"),
				OracleExecutionFailed,
				"oracle call failed",
			),
			contains: []string{
				"oracle call failed",
				"queue rejection",
			},
		},
		{
			name: "Error with fields",
			err: WithFields(
				New(BudgetExceeded, "shot budget exhausted"),
				Fields{"shots": 4096},
			),
			contains: []string{
				"shot budget exhausted",
				"shots=4096",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errString := tt.err.Error()
			for _, str := range tt.contains {
				assert.Contains(t, errString, str,
					"Error string should contain expected message")
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	t.Run("fields are copied on read", func(t *testing.T) {
		err := WithFields(New(InvalidInput, "bad target"), Fields{"target": 99999})

		customErr := err.(*Error)
		fields := customErr.Fields()
		fields["target"] = 0

		assert.Equal(t, 99999, customErr.Fields()["target"])
	})

	t.Run("fields merge on rewrap", func(t *testing.T) {
		err := WithFields(New(InvalidInput, "bad target"), Fields{"target": 1})
		err = WithFields(err, Fields{"space": 32768})

		fields := err.(*Error).Fields()
		assert.Equal(t, 1, fields["target"])
		assert.Equal(t, 32768, fields["space"])
	})

	t.Run("plain error gains fields", func(t *testing.T) {
		err := WithFields(stderrors.New("plain"), Fields{"k": "v"})
		customErr := err.(*Error)
		assert.Equal(t, Unknown, customErr.Code())
		assert.Equal(t, "v", customErr.Fields()["k"])
	})
}

func TestCheckContext(t *testing.T) {
	t.Run("live context", func(t *testing.T) {
		assert.NoError(t, CheckContext(context.Background(), "optimize"))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := CheckContext(ctx, "optimize")
		assert.Error(t, err)
		assert.True(t, HasCode(err, Canceled))
		assert.Contains(t, err.Error(), "optimize canceled")
	})
}

func TestHasCode(t *testing.T) {
	err := Wrap(New(OracleExecutionFailed, "inner"), Timeout, "outer")
	assert.True(t, HasCode(err, Timeout))
	assert.False(t, HasCode(err, OracleExecutionFailed), "outermost code wins")
	assert.False(t, HasCode(stderrors.New("plain"), Timeout))
}
