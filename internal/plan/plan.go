// Package plan models the research plan: how many assistants run, what each
// one focuses on, and the synthesis prompt that merges their findings. The
// plan is normally decided by a planning call to the external agent; this
// package also carries the fallback rules applied when the planner under- or
// over-delivers.
package plan

// Assistant count limits. The planner may choose any count in this range;
// values outside it fall back to DefaultAssistants.
const (
	MinAssistants     = 2
	MaxAssistants     = 8
	DefaultAssistants = 4
)

// defaultFocuses is the canonical focus table used when the planner (or a
// roles file) does not assign one for an index.
var defaultFocuses = map[int]string{
	1: "Factual research and direct information",
	2: "Analysis and metrics",
	3: "Alternative perspectives and criticisms",
	4: "Case studies and examples",
	5: "Implementation challenges and risks",
	6: "Future trends and research gaps",
	7: "Ethical, legal, and societal implications",
	8: "Contrarian view and edge cases",
}

// DefaultFocusForIndex returns the canonical focus area for a 1-based
// assistant index, or a generic focus for out-of-table indices.
func DefaultFocusForIndex(idx int) string {
	if focus, ok := defaultFocuses[idx]; ok {
		return focus
	}
	return "General research"
}

// Plan describes a decided research configuration.
type Plan struct {
	// AssistantCount is the number of parallel assistants to run.
	AssistantCount int
	// Focuses maps 1-based assistant indices to their focus areas.
	Focuses map[int]string
	// SynthesisPrompt is the instruction block for the synthesis call.
	// Planning fails without one; there is no hard-coded fallback here
	// because the default lives with the synthesis prompt builder.
	SynthesisPrompt string
	// PlanText is the optional human-readable plan extracted from the
	// planning session, written to the research-plan artifact verbatim.
	PlanText string
}

// Normalize applies the fallback rules to a decided plan:
//
//   - forcedCount, when non-zero, overrides the planner's count (flag
//     validation rejects out-of-range values before they reach here);
//   - counts outside MinAssistants..MaxAssistants become DefaultAssistants;
//   - missing focuses are seeded from customFocuses (a roles file) first and
//     the default focus table second.
func (p *Plan) Normalize(forcedCount int, customFocuses []string) {
	if forcedCount != 0 {
		p.AssistantCount = forcedCount
	}
	if p.AssistantCount < MinAssistants || p.AssistantCount > MaxAssistants {
		p.AssistantCount = DefaultAssistants
	}
	if p.Focuses == nil {
		p.Focuses = make(map[int]string)
	}
	for i := 1; i <= p.AssistantCount; i++ {
		if p.Focuses[i] != "" {
			continue
		}
		if i-1 < len(customFocuses) {
			p.Focuses[i] = customFocuses[i-1]
			continue
		}
		p.Focuses[i] = DefaultFocusForIndex(i)
	}
}

// FocusList returns the focuses for indices 1..AssistantCount in order.
func (p Plan) FocusList() []string {
	focuses := make([]string, 0, p.AssistantCount)
	for i := 1; i <= p.AssistantCount; i++ {
		focuses = append(focuses, p.Focuses[i])
	}
	return focuses
}
