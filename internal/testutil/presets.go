package testutil

// CSource is a small C file: a directive, a comment, keywords, types,
// a string and a number.
const CSource = `#include <stdio.h>

/* entry point */
int main(void) {
	printf("hello %d\n", 42);
	return 0;
}
`

// GoSource is a small Go file.
const GoSource = `package main

import "fmt"

// main prints a greeting.
func main() {
	fmt.Println("hi")
}
`

// ShellScript has no extension; only its shebang names the language.
const ShellScript = `#!/bin/bash
# build everything
for f in *.c; do
	cc -c "$f"
done
`

// Backtrace is one gdb frame line: a frame number, a hex address and a
// source path.
const Backtrace = "#1  0x0000555555555555 in main () at demo/main.c:42"

// GDBTranscript is a short debugger session as the terminal would deliver
// it, including a carriage-return progress line.
const GDBTranscript = "Reading symbols from demo...\n" +
	"Loading 10%\rLoading 100%\n" +
	"Breakpoint 1 at 0x1149: file demo/main.c, line 4.\n" +
	"(gdb) bt\n" +
	"#0  helper () at demo/helper.c:7\n" +
	Backtrace + "\n" +
	"(gdb) "

// WithDemoSources adds demo.c, cmd/main.go and the extensionless rebuild script.
func (b *Builder) WithDemoSources() *Builder {
	return b.
		WithFile("demo.c", CSource).
		WithFile("cmd/main.go", GoSource).
		WithFile("rebuild", ShellScript, Executable())
}
