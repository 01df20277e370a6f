// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/splicerc/pkg/status"
)

// 🎨 Display configuration
const (
	blockIndent = 4  // spaces to indent block entries
	nameWidth   = 35 // Base width for block name
	lineWidth   = 15 // Width for the line column
	statusWidth = 15 // Width for status text
)

// 🎯 BlockOperation represents the outcome of one block for logging
type BlockOperation struct {
	Target string // Target file
	Name   string // Block name
	Status string // replaced/unchanged/missing
	Line   int    // Line of the block in the target, zero when missing
}

// 📦 TargetOperation represents the splicing of one target file
type TargetOperation struct {
	Job      string // Job name
	Template string // Template path
	Target   string // Target path
	DryRun   bool   // Whether writes are suppressed
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	operations []BlockOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatBlockOperation formats a block operation for display
func (l *Logger) formatBlockOperation(op BlockOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Status {
	case "replaced":
		symbol = '⟳'
		symbolColor = color.FgBlue
	case "unchanged":
		symbol = '•'
		symbolColor = color.FgCyan
	case "missing":
		symbol = '✗'
		symbolColor = color.FgYellow
	default:
		symbol = '-'
		symbolColor = color.FgRed
	}

	line := "-"
	if op.Line > 0 {
		line = "L" + strconv.Itoa(op.Line)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", blockIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", lineWidth, line)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogBlockOperation logs a block operation
func (l *Logger) LogBlockOperation(ctx context.Context, op BlockOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatBlockOperation(op))

	l.zlog.Info().
		Str("target", op.Target).
		Str("block", op.Name).
		Str("status", op.Status).
		Int("line", op.Line).
		Msg("block operation")
}

// 📝 StartTarget prints the header for a target
func (l *Logger) StartTarget(ctx context.Context, op TargetOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	verb := "splicing"
	if op.DryRun {
		verb = "checking"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", verb, color.New(color.FgCyan).Sprint(op.Target))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Job),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Template))

	l.zlog.Info().
		Str("job", op.Job).
		Str("template", op.Template).
		Str("target", op.Target).
		Bool("dry_run", op.DryRun).
		Msg("starting target")
}

// 📝 Operations returns the block operations logged so far
func (l *Logger) Operations() []BlockOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	ops := make([]BlockOperation, len(l.operations))
	copy(ops, l.operations)
	return ops
}

// 📊 Summary renders a table with one row per target
func (l *Logger) Summary(files []status.FileInfo) error {
	data := pterm.TableData{{"target", "job", "status", "replaced", "missing", "written"}}
	for _, f := range files {
		data = append(data, []string{
			f.Path,
			f.Job,
			f.Status.String(),
			strconv.Itoa(f.Replacements),
			strconv.Itoa(f.Missing),
			strconv.FormatBool(f.Written),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, out)
	l.zlog.Info().Int("targets", len(files)).Msg("summary")
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("splicerc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
