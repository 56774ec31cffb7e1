package symbols

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"FinAssist/internal/domain/models"
)

var (
	punctuation   = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	tickerPattern = regexp.MustCompile(`^\$?[A-Z]{2,6}$`)
	whitespace    = regexp.MustCompile(`\s+`)
)

const maxPhraseLen = 3

// ExtractPotentialEntities turns a free-text query into candidate mentions:
// every token that is not a stop word, then every run of two and three
// consecutive surviving tokens. Output is lower-case and deduplicated in
// first-seen order.
func ExtractPotentialEntities(query string) []string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(query), " ")

	tokens := make([]string, 0, 16)
	for _, tok := range strings.Fields(cleaned) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	seen := make(map[string]struct{}, len(tokens)*maxPhraseLen)
	out := make([]string, 0, len(tokens)*maxPhraseLen)
	for size := 1; size <= maxPhraseLen; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			phrase := strings.Join(tokens[i:i+size], " ")
			if _, ok := seen[phrase]; ok {
				continue
			}
			seen[phrase] = struct{}{}
			out = append(out, phrase)
		}
	}
	return out
}

// ExtractSymbolsFromQuery returns the ordered, de-duplicated tickers a query
// mentions: alias phrases first, then literal ticker-looking tokens, then
// whatever the resolver finds for the remaining candidate entities.
func (r *Resolver) ExtractSymbolsFromQuery(ctx context.Context, query string, user models.UserContext) []string {
	flat := whitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	scan := scanQuery(flat)

	var pending []string
	for _, entity := range ExtractPotentialEntities(flat) {
		if scan.pending(entity) {
			pending = append(pending, entity)
		}
	}
	return scan.symbols(r.resolveEach(ctx, pending, user))
}

// ResolveQuery reports the candidate entities of query, what each of them
// resolves to, and the symbols ExtractSymbolsFromQuery would return. Every
// entity is looked up once.
func (r *Resolver) ResolveQuery(ctx context.Context, query string, user models.UserContext) models.ResolveResponse {
	flat := whitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	scan := scanQuery(flat)
	entities := ExtractPotentialEntities(flat)

	hits := r.resolveEach(ctx, entities, user)
	resolved := make([]models.ResolvedSymbol, 0, len(hits))
	pending := make([]entityHit, 0, len(hits))
	for _, h := range hits {
		resolved = append(resolved, h.resolved)
		if scan.pending(h.entity) {
			pending = append(pending, h)
		}
	}

	return models.ResolveResponse{
		Entities: entities,
		Symbols:  scan.symbols(pending),
		Resolved: resolved,
	}
}

// queryScan holds what a query names directly, without any lookups.
type queryScan struct {
	direct         []string
	tickers        map[string]struct{}
	matchedAliases []string
}

func scanQuery(flat string) queryScan {
	scan := queryScan{tickers: make(map[string]struct{})}

	type aliasHit struct {
		pos    int
		symbol string
	}
	var hits []aliasHit
	remaining := flat
	for _, p := range aliasPatterns {
		loc := p.re.FindStringIndex(remaining)
		if loc == nil {
			continue
		}
		hits = append(hits, aliasHit{pos: loc[0], symbol: aliasTable[p.alias].Symbol})
		scan.matchedAliases = append(scan.matchedAliases, p.alias)
		// blank the match so shorter aliases inside it are not counted again
		remaining = p.re.ReplaceAllStringFunc(remaining, func(m string) string {
			return strings.Repeat(" ", len(m))
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	for _, h := range hits {
		scan.direct = append(scan.direct, h.symbol)
	}

	for _, tok := range strings.Fields(flat) {
		tok = strings.TrimFunc(tok, isTrimmable)
		if !tickerPattern.MatchString(tok) {
			continue
		}
		tok = strings.TrimPrefix(tok, "$")
		if _, skip := nonTickers[tok]; skip {
			continue
		}
		scan.tickers[strings.ToLower(tok)] = struct{}{}
		scan.direct = append(scan.direct, tok)
	}
	return scan
}

// pending reports whether entity still needs the resolver.
func (s queryScan) pending(entity string) bool {
	if _, ok := s.tickers[entity]; ok {
		return false
	}
	return !coveredByAlias(entity, s.matchedAliases)
}

// symbols merges the direct mentions with resolver hits, upper-cased and
// de-duplicated in order.
func (s queryScan) symbols(hits []entityHit) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	add := func(sym string) {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			return
		}
		if _, ok := seen[sym]; ok {
			return
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}

	for _, sym := range s.direct {
		add(sym)
	}
	for _, h := range hits {
		add(h.resolved.Symbol)
	}
	return out
}

func coveredByAlias(entity string, aliases []string) bool {
	for _, a := range aliases {
		if strings.Contains(a, entity) || strings.Contains(entity, a) {
			return true
		}
	}
	return false
}

func isTrimmable(r rune) bool {
	switch r {
	case '$':
		return false
	case '.', ',', '!', '?', ';', ':', '"', '\'', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}
