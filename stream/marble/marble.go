// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package marble describes streams as marble diagrams on a virtual clock and
// turns them into observables and back.
//
// A marble diagram describes a stream one frame per character, where a frame
// is one millisecond of virtual time:
//
//	-      nothing happens in this frame
//	a      the item with key "a" is emitted (any key of the values map)
//	|      the stream completes
//	#      the stream fails with ErrMarble
//	(ab)   a, b are emitted in the same frame; the group takes as many
//	       frames as it has characters
//	^      the subscription point of a hot stream
//	10ms   time progression: 10 frames pass. Must be at the start of the
//	       diagram or preceded by a space and always followed by a space.
//	       Units are ms, s and m.
//
// Spaces are otherwise ignored, which allows aligning diagrams.
package marble

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FrameDuration is the virtual time a single diagram character stands for.
const FrameDuration = time.Millisecond

var (
	// ErrMarble is the error emitted by the '#' marble.
	ErrMarble = errors.New("marble error")

	// ErrSyntax is wrapped by errors returned from Parse.
	ErrSyntax = errors.New("invalid marble diagram")
)

// Kind is the kind of signal in a Frame.
type Kind uint8

const (
	KindNext Kind = iota
	KindError
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindComplete:
		return "complete"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Frame is a single signal at a point in virtual time, relative to the
// subscription.
type Frame[T any] struct {
	Time  time.Duration
	Kind  Kind
	Value T
	Err   error
}

func (f Frame[T]) String() string {
	switch f.Kind {
	case KindNext:
		return fmt.Sprintf("%v@%v", f.Value, f.Time)
	case KindError:
		return fmt.Sprintf("#(%v)@%v", f.Err, f.Time)
	default:
		return fmt.Sprintf("|@%v", f.Time)
	}
}

var timeProgression = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)(ms|s|m) `)

// Parse parses 'diagram' into frames. Item keys are looked up from
// 'values'. Frame times are relative to the '^' marker if the diagram has one
// and thus negative for frames before it.
func Parse[T any](diagram string, values map[string]T) ([]Frame[T], error) {
	var (
		frames     []Frame[T]
		now        time.Duration
		subAt      time.Duration
		haveSub    bool
		inGroup    bool
		groupStart time.Duration
		groupIndex int
	)

	// advance moves past a single character outside of groups.
	advance := func() {
		if !inGroup {
			now += FrameDuration
		}
	}
	at := func() time.Duration {
		if inGroup {
			return groupStart
		}
		return now
	}

	runes := []rune(diagram)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == ' ':

		case c == '-':
			if inGroup {
				return nil, fmt.Errorf("%w: '-' inside group at %d", ErrSyntax, i)
			}
			now += FrameDuration

		case c == '(':
			if inGroup {
				return nil, fmt.Errorf("%w: nested group at %d", ErrSyntax, i)
			}
			inGroup = true
			groupStart = now
			groupIndex = i

		case c == ')':
			if !inGroup {
				return nil, fmt.Errorf("%w: unmatched ')' at %d", ErrSyntax, i)
			}
			inGroup = false
			now = groupStart + time.Duration(i-groupIndex+1)*FrameDuration

		case c == '^':
			if haveSub || inGroup {
				return nil, fmt.Errorf("%w: unexpected '^' at %d", ErrSyntax, i)
			}
			haveSub = true
			subAt = now
			advance()

		case c == '|':
			frames = append(frames, Frame[T]{Time: at(), Kind: KindComplete})
			advance()

		case c == '#':
			frames = append(frames, Frame[T]{Time: at(), Kind: KindError, Err: ErrMarble})
			advance()

		default:
			if c >= '0' && c <= '9' && !inGroup && (i == 0 || runes[i-1] == ' ') {
				if m := timeProgression.FindStringSubmatch(string(runes[i:])); m != nil {
					d, err := time.ParseDuration(m[1] + m[2])
					if err != nil {
						return nil, fmt.Errorf("%w: bad time progression %q: %w", ErrSyntax, m[0], err)
					}
					now += d
					i += len([]rune(m[0])) - 1
					continue
				}
			}
			key := string(c)
			v, ok := values[key]
			if !ok {
				return nil, fmt.Errorf("%w: unknown key %q at %d", ErrSyntax, key, i)
			}
			frames = append(frames, Frame[T]{Time: at(), Kind: KindNext, Value: v})
			advance()
		}
	}
	if inGroup {
		return nil, fmt.Errorf("%w: unterminated group", ErrSyntax)
	}

	if err := checkTermination(frames); err != nil {
		return nil, err
	}

	if haveSub {
		for i := range frames {
			frames[i].Time -= subAt
		}
	}
	return frames, nil
}

func checkTermination[T any](frames []Frame[T]) error {
	for i, f := range frames {
		if f.Kind != KindNext && i != len(frames)-1 {
			return fmt.Errorf("%w: signals after termination at %v", ErrSyntax, f.Time)
		}
	}
	return nil
}

// Format renders frames back into a diagram, using 'key' to name items.
// Frames falling inside the span of a preceding group are not representable
// and are placed right after it.
func Format[T any](frames []Frame[T], key func(T) string) string {
	sorted := make([]Frame[T], len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	var (
		b      strings.Builder
		cursor time.Duration
	)
	symbol := func(f Frame[T]) string {
		switch f.Kind {
		case KindError:
			return "#"
		case KindComplete:
			return "|"
		}
		return key(f.Value)
	}
	for i := 0; i < len(sorted); {
		t := sorted[i].Time
		j := i
		for j < len(sorted) && sorted[j].Time == t {
			j++
		}
		for cursor < t {
			b.WriteByte('-')
			cursor += FrameDuration
		}
		if j-i == 1 {
			b.WriteString(symbol(sorted[i]))
			cursor += FrameDuration
		} else {
			b.WriteByte('(')
			for _, f := range sorted[i:j] {
				b.WriteString(symbol(f))
			}
			b.WriteByte(')')
			cursor += time.Duration(j-i+2) * FrameDuration
		}
		i = j
	}
	return b.String()
}
