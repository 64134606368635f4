package browser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Prompt blocks until the user has finished logging in
type Prompt func(ctx context.Context) error

// NeedsLogin reports whether sessionFile is missing or empty
func NeedsLogin(sessionFile string) (bool, error) {
	info, err := os.Stat(sessionFile)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat session file: %w", err)
	}
	return info.Size() == 0, nil
}

// WaitForEnter prints a hint to out and returns once a line is read from in
func WaitForEnter(in io.Reader, out io.Writer) Prompt {
	return func(ctx context.Context) error {
		fmt.Fprintln(out, "Please log in manually in the browser window, then press Enter here...")

		done := make(chan error, 1)
		go func() {
			_, err := bufio.NewReader(in).ReadString('\n')
			if errors.Is(err, io.EOF) {
				err = nil
			}
			done <- err
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
