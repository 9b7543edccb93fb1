// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sign

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bureau-foundation/swdict/lib/sss"
	"github.com/bureau-foundation/swdict/lib/symbolindex"
)

// ErrMarkup is matched by errors for documents that are not
// well-formed markup or lack required structure.
var ErrMarkup = errors.New("invalid sign markup")

// Resolver maps an SSS code to its index id. *symbolindex.Index
// implements it.
type Resolver interface {
	Resolve(ctx context.Context, code sss.SSS) (symbolindex.Resolution, bool, error)
}

// Assembler builds signs from markup.
type Assembler struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewAssembler returns an assembler resolving through resolver. A nil
// logger discards output.
func NewAssembler(resolver Resolver, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{resolver: resolver, logger: logger}
}

// FromMarkup assembles a sign with a discarding logger.
func FromMarkup(ctx context.Context, resolver Resolver, text string) (Sign, error) {
	return NewAssembler(resolver, nil).FromMarkup(ctx, text)
}

// FromFile assembles a sign from a markup file with a discarding
// logger.
func FromFile(ctx context.Context, resolver Resolver, path string) (Sign, error) {
	return NewAssembler(resolver, nil).FromFile(ctx, path)
}

type markupDocument struct {
	XMLName xml.Name
	Signs   []markupSign `xml:"sign"`
}

type markupSign struct {
	Gloss   *string        `xml:"gloss"`
	Symbols []markupSymbol `xml:"symbol"`
}

type markupSymbol struct {
	X    string `xml:"x,attr"`
	Y    string `xml:"y,attr"`
	Code string `xml:",chardata"`
}

// FromMarkup parses text and resolves each symbol code. The first
// sign element under the root is used, and only symbol elements that
// are its direct children are read. Unresolvable and malformed
// codes are dropped and logged at debug level. Structural problems
// in the document return an error matching [ErrMarkup]; errors from
// the resolver other than malformed codes are returned as-is.
func (a *Assembler) FromMarkup(ctx context.Context, text string) (Sign, error) {
	var document markupDocument
	if err := xml.Unmarshal([]byte(text), &document); err != nil {
		return Sign{}, fmt.Errorf("%w: %v", ErrMarkup, err)
	}
	if len(document.Signs) == 0 {
		return Sign{}, fmt.Errorf("%w: no sign element under <%s>", ErrMarkup, document.XMLName.Local)
	}
	element := document.Signs[0]
	if element.Gloss == nil {
		return Sign{}, fmt.Errorf("%w: sign has no gloss element", ErrMarkup)
	}

	assembled := Sign{Gloss: strings.TrimSpace(*element.Gloss)}
	for position, symbol := range element.Symbols {
		x, err := parseCoordinate(symbol.X)
		if err != nil {
			return Sign{}, fmt.Errorf("%w: symbol %d: x: %v", ErrMarkup, position, err)
		}
		y, err := parseCoordinate(symbol.Y)
		if err != nil {
			return Sign{}, fmt.Errorf("%w: symbol %d: y: %v", ErrMarkup, position, err)
		}

		code := strings.TrimSpace(symbol.Code)
		resolution, ok, err := a.resolver.Resolve(ctx, sss.FromText(code))
		if err != nil {
			if errors.Is(err, sss.ErrFormat) {
				a.logger.Debug("dropping malformed symbol", "gloss", assembled.Gloss, "sss", code, "error", err)
				continue
			}
			return Sign{}, fmt.Errorf("resolving %q: %w", code, err)
		}
		if !ok {
			a.logger.Debug("dropping unresolved symbol", "gloss", assembled.Gloss, "sss", code)
			continue
		}
		assembled.Symbols = append(assembled.Symbols, Symbol{
			Category: resolution.Category,
			ID:       resolution.ID,
			X:        x,
			Y:        y,
		})
	}
	return assembled, nil
}

// FromFile reads a markup file and assembles it. Read failures wrap
// the underlying os error.
func (a *Assembler) FromFile(ctx context.Context, path string) (Sign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sign{}, fmt.Errorf("reading markup: %w", err)
	}
	assembled, err := a.FromMarkup(ctx, string(data))
	if err != nil {
		return Sign{}, fmt.Errorf("%s: %w", path, err)
	}
	return assembled, nil
}

func parseCoordinate(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("missing attribute")
	}
	return strconv.Atoi(value)
}
