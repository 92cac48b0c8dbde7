package transcript

import "errors"

var (
	// ErrOverflow is returned by Append when the transcript buffer has
	// no room left for the requested bytes (ResourceError:
	// TranscriptOverflow).
	ErrOverflow = errors.New("transcript: buffer overflow")

	// ErrOutputTooSmall is returned by Hash when the caller-supplied
	// output buffer is smaller than the digest's size.
	ErrOutputTooSmall = errors.New("transcript: output buffer smaller than digest size")
)
