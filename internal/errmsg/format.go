// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"context"
	"errors"
	"fmt"

	"github.com/llehouerou/sinuous/internal/speaker"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Transport commands
	OpPlay         Op = "play"
	OpPause        Op = "pause"
	OpNext         Op = "skip to the next track"
	OpPrevious     Op = "go back to the previous track"
	OpSetVolume    Op = "change volume"
	OpPlayFavorite Op = "play favorite"

	// Group state
	OpRefresh       Op = "refresh group state"
	OpAttach        Op = "follow group"
	OpLoadFavorites Op = "load favorites"

	// Discovery
	OpDiscover Op = "find speakers"
)

// ForCommand returns the operation a command performs.
func ForCommand(k speaker.Kind) Op {
	switch k {
	case speaker.KindPlay:
		return OpPlay
	case speaker.KindPause:
		return OpPause
	case speaker.KindNext:
		return OpNext
	case speaker.KindPrevious:
		return OpPrevious
	case speaker.KindSetVolume:
		return OpSetVolume
	case speaker.KindPlayFavorite:
		return OpPlayFavorite
	default:
		return Op(k.String())
	}
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, describe(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, context, describe(err))
}

// describe shortens well-known causes; anything else keeps its own text.
func describe(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "speaker did not answer in time"
	case errors.Is(err, speaker.ErrUnreachable):
		return "speaker unreachable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return err.Error()
	}
}
