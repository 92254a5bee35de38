package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/config"
	"github.com/ludo-technologies/kuma/internal/constants"
)

// TodoUseCase writes the todo file produced by --auto-gen-config
type TodoUseCase struct {
	out io.Writer
	now func() time.Time
}

// NewTodoUseCase creates a use case that reports to out
func NewTodoUseCase(out io.Writer) *TodoUseCase {
	return &TodoUseCase{out: out, now: time.Now}
}

// Generate writes a configuration tolerating the findings in results to
// path. It reports whether a file was written.
func (uc *TodoUseCase) Generate(results []domain.ToolResult, path string) (bool, error) {
	if path == "" {
		path = constants.TodoFileName
	}

	content, ok, err := config.RenderTodo(results, uc.now())
	if err != nil {
		return false, domain.NewOutputError("failed to render todo file", err)
	}
	if !ok {
		fmt.Fprintf(uc.out, "No findings to record, %s not written.\n", path)
		return false, nil
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, domain.NewOutputError(fmt.Sprintf("failed to write %s", path), err)
	}

	fmt.Fprintf(uc.out, "Created %s.\n", path)
	fmt.Fprintf(uc.out, "Run `%s --config %s`, or add `inherit_from: %s` in a %s file.\n",
		constants.ToolName, path, path, constants.ConfigFileName)
	return true, nil
}
