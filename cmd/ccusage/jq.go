package main

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
)

// jqBinary is the external filter the JSON output path shells out to.
const jqBinary = "jq"

// jqAvailable reports whether the jq binary is on PATH.
func jqAvailable() bool {
	_, err := exec.LookPath(jqBinary)
	return err == nil
}

// runJQ pipes input through the given jq expression and writes the
// filtered result to w.
func runJQ(w io.Writer, expr string, input []byte) error {
	if !jqAvailable() {
		return fmt.Errorf("--jq requires the %s binary on PATH", jqBinary)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(jqBinary, expr)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = w
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("jq filter failed: %s", msg)
		}
		return fmt.Errorf("jq filter failed: %w", err)
	}

	return nil
}
