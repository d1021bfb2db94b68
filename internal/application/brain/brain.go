// Package brain provides command sources for bodies that are not driven
// by the keyboard.
package brain

import "github.com/younwookim/shine/internal/domain/entity"

// Static always issues the same commands
type Static entity.Commands

// Commands implements entity.CommandSource
func (s Static) Commands(*entity.Body) entity.Commands { return entity.Commands(s) }

// Func adapts a function to entity.CommandSource
type Func func(b *entity.Body) entity.Commands

// Commands implements entity.CommandSource
func (f Func) Commands(b *entity.Body) entity.Commands { return f(b) }
