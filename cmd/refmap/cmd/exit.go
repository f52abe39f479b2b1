package cmd

// exitError is returned by commands that need a specific exit code.
// search uses grep conventions: 0=found, 1=not found, 2=error.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string {
	return e.msg
}

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	if ee, ok := err.(exitError); ok {
		return ee.code
	}
	return -1
}
