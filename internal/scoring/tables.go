package scoring

import "persona-engine/internal/domain"

const (
	hh  = domain.HonestyHumility
	emo = domain.Emotionality
	ext = domain.Extraversion
	agr = domain.Agreeableness
	con = domain.Conscientiousness
	opn = domain.Openness
	dom = domain.Dominance
	vig = domain.Vigilance
	stc = domain.SelfTranscendence
	abo = domain.AbstractOrientation
	vlo = domain.ValueOrientation
	flx = domain.Flexibility
)

// Upper triangle of the trait correlation matrix. Pairs not listed are uncorrelated.
var defaultCorrelations = []Correlation{
	{hh, emo, 0.10},
	{hh, agr, 0.35},
	{hh, con, 0.15},
	{hh, dom, -0.40},
	{hh, vig, -0.20},
	{hh, stc, 0.30},
	{hh, vlo, 0.25},

	{emo, ext, -0.15},
	{emo, agr, 0.10},
	{emo, dom, -0.30},
	{emo, vig, 0.45},
	{emo, stc, 0.15},
	{emo, vlo, 0.30},

	{ext, agr, 0.15},
	{ext, opn, 0.20},
	{ext, dom, 0.45},
	{ext, vig, -0.25},
	{ext, flx, 0.30},

	{agr, dom, -0.45},
	{agr, vig, -0.40},
	{agr, stc, 0.25},
	{agr, vlo, 0.55},
	{agr, flx, 0.20},

	{con, opn, -0.10},
	{con, vig, 0.15},
	{con, abo, -0.15},
	{con, flx, -0.76},

	{opn, dom, 0.05},
	{opn, stc, 0.35},
	{opn, abo, 0.62},
	{opn, flx, 0.40},

	{dom, vig, 0.20},
	{dom, vlo, -0.35},

	{vig, stc, -0.15},
	{vig, flx, -0.20},

	{stc, abo, 0.30},
	{stc, vlo, 0.35},

	{abo, vlo, -0.20},
	{abo, flx, 0.25},

	{vlo, flx, 0.10},
}

// Processed in order by both enforcement phases.
var defaultCriticalPairs = []CriticalPair{
	{A: con, B: flx, Expected: -0.76, Force: 0.35},
	{A: opn, B: abo, Expected: 0.62, Force: 0.30},
	{A: agr, B: vlo, Expected: 0.55, Force: 0.25},
	{A: agr, B: dom, Expected: -0.45, Force: 0.20},
	{A: emo, B: vig, Expected: 0.45, Force: 0.20},
	{A: ext, B: dom, Expected: 0.45, Force: 0.15},
	{A: hh, B: dom, Expected: -0.40, Force: 0.15},
}

// Letter fragments shared by the archetypes below.
var (
	extraverted = map[domain.Trait]Range{ext: {0.55, 1}}
	introverted = map[domain.Trait]Range{ext: {0, 0.45}}
	intuitive   = map[domain.Trait]Range{opn: {0.55, 1}, abo: {0.5, 1}}
	sensing     = map[domain.Trait]Range{opn: {0, 0.5}, abo: {0, 0.5}}
	feeling     = map[domain.Trait]Range{agr: {0.5, 1}, vlo: {0.55, 1}}
	thinking    = map[domain.Trait]Range{agr: {0, 0.55}, vlo: {0, 0.45}}
	judging     = map[domain.Trait]Range{con: {0.55, 1}, flx: {0, 0.45}}
	perceiving  = map[domain.Trait]Range{con: {0, 0.5}, flx: {0.55, 1}}
)

func ranges(parts ...map[domain.Trait]Range) map[domain.Trait]Range {
	out := make(map[domain.Trait]Range)
	for _, p := range parts {
		for t, r := range p {
			out[t] = r
		}
	}
	return out
}

// Nearest-neighbor ties resolve to the earliest code in this order.
var defaultArchetypeOrder = []string{
	"INTJ", "INTP", "ENTJ", "ENTP",
	"INFJ", "INFP", "ENFJ", "ENFP",
	"ISTJ", "ISFJ", "ESTJ", "ESFJ",
	"ISTP", "ISFP", "ESTP", "ESFP",
}

var defaultArchetypes = map[string]map[domain.Trait]Range{
	"INTJ": ranges(introverted, intuitive, thinking, judging, map[domain.Trait]Range{dom: {0.45, 0.85}}),
	"INTP": ranges(introverted, intuitive, thinking, perceiving, map[domain.Trait]Range{abo: {0.65, 1}}),
	"ENTJ": ranges(extraverted, intuitive, thinking, judging, map[domain.Trait]Range{dom: {0.6, 1}}),
	"ENTP": ranges(extraverted, intuitive, thinking, perceiving, map[domain.Trait]Range{vig: {0.2, 0.6}}),

	"INFJ": ranges(introverted, intuitive, feeling, judging, map[domain.Trait]Range{stc: {0.55, 1}}),
	"INFP": ranges(introverted, intuitive, feeling, perceiving, map[domain.Trait]Range{stc: {0.5, 1}, emo: {0.45, 0.9}}),
	"ENFJ": ranges(extraverted, intuitive, feeling, judging, map[domain.Trait]Range{hh: {0.5, 1}}),
	"ENFP": ranges(extraverted, intuitive, feeling, perceiving, map[domain.Trait]Range{emo: {0.4, 0.85}}),

	"ISTJ": ranges(introverted, sensing, thinking, judging, map[domain.Trait]Range{hh: {0.5, 1}}),
	"ISFJ": ranges(introverted, sensing, feeling, judging, map[domain.Trait]Range{emo: {0.5, 0.9}}),
	"ESTJ": ranges(extraverted, sensing, thinking, judging, map[domain.Trait]Range{dom: {0.55, 1}}),
	"ESFJ": ranges(extraverted, sensing, feeling, judging, map[domain.Trait]Range{hh: {0.45, 0.9}}),

	"ISTP": ranges(introverted, sensing, thinking, perceiving, map[domain.Trait]Range{vig: {0.4, 0.8}}),
	"ISFP": ranges(introverted, sensing, feeling, perceiving, map[domain.Trait]Range{emo: {0.45, 0.85}}),
	"ESTP": ranges(extraverted, sensing, thinking, perceiving, map[domain.Trait]Range{dom: {0.5, 0.95}, vig: {0.1, 0.55}}),
	"ESFP": ranges(extraverted, sensing, feeling, perceiving, map[domain.Trait]Range{emo: {0.35, 0.8}}),
}
