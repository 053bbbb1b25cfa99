//go:build !unix

package stream

func classifyErrno(error) error {
	return ErrInvalidHandle
}
