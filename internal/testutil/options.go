package testutil

import "os"

// FileOption configures a file during builder setup.
type FileOption func(*fileData)

// Mode sets the file permissions.
func Mode(m os.FileMode) FileOption {
	return func(f *fileData) { f.mode = m }
}

// Executable marks the file executable, as scripts with a shebang are.
func Executable() FileOption {
	return Mode(0o755)
}

// CRLF writes the content with DOS line endings.
func CRLF() FileOption {
	return func(f *fileData) { f.crlf = true }
}
