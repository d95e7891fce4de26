package plan

import (
	"fmt"
	"strings"
)

// PlanningPrompt builds the prompt for the lightweight planning call that
// decides assistant count, focuses, and the synthesis instruction block.
func PlanningPrompt(query string) string {
	var b strings.Builder
	b.WriteString("You are the Planning Orchestrator for a parallel research workflow.\n\n")
	b.WriteString("Task:\n")
	fmt.Fprintf(&b, "- Analyze the user query below and decide how many research assistants are needed (between %d and %d).\n", MinAssistants, MaxAssistants)
	b.WriteString("- For each assistant, assign a concise, specific focus area tailored to the query.\n\n")
	b.WriteString("I/O Contract:\n")
	fmt.Fprintf(&b, "- Output only a single JSON object between the tags %s and %s. ", TagPlanJSONBegin, TagPlanJSONEnd)
	fmt.Fprintf(&b, "Also output a synthesis instruction block between %s and %s to be used as the synthesis prompt. The synthesis prompt is REQUIRED.\n", TagSynthPromptBegin, TagSynthPromptEnd)
	b.WriteString("- Do not include any text outside the tagged blocks.\n")
	b.WriteString("- The JSON must include keys \"assistant_count\" and \"assistant_focuses\".\n\n")
	fmt.Fprintf(&b, "Query: %q\n\n", query)
	b.WriteString("Constraints:\n")
	fmt.Fprintf(&b, "- assistant_count must be an integer between %d and %d.\n", MinAssistants, MaxAssistants)
	b.WriteString("- assistant_focuses can be either an object mapping string indices (\"1\", \"2\", ...) to focus strings, or an array of focus strings in order.\n")
	b.WriteString("- Focus examples: \"Factual baseline and key definitions\", \"Market sizing and metrics\", \"Risks and failure modes\", etc.\n\n")
	b.WriteString("Now produce the JSON plan. After the JSON block, also print a tailored synthesis instruction block between ")
	fmt.Fprintf(&b, "%s and %s.\n", TagSynthPromptBegin, TagSynthPromptEnd)
	return b.String()
}

// AssistantPrompt builds the role prompt for a single research assistant.
// Index is 1-based; format names the requested output format in the
// instructions ("markdown" or "text").
func AssistantPrompt(index int, focus, query, format string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are Research Assistant RA-%d working in parallel on the following query:\n\n", index)
	fmt.Fprintf(&b, "%q\n\n", query)
	fmt.Fprintf(&b, "Your specific focus: %s\n\n", focus)
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- Produce a focused, self-contained %s report\n", format)
	b.WriteString("- Cite credible sources using inline markdown links\n")
	b.WriteString("- No meta commentary, no planning output, no placeholders\n")
	fmt.Fprintf(&b, "- Output only the final report content as %s", format)
	return b.String()
}

// DefaultSynthesisPrompt is the senior-analyst instruction block used when the
// planner does not provide a tailored one (the synthesis builder also accepts
// a planner-provided prompt, which takes precedence).
func DefaultSynthesisPrompt(format string) string {
	return fmt.Sprintf("You are a senior analyst. Synthesize the following assistant reports into "+
		"a single comprehensive %s analysis with an executive summary, key findings, areas of "+
		"agreement/disagreement, and recommended next steps. Cite with inline markdown links.", format)
}

// OrchestrationPrompt builds the self-contained prompt written to disk when
// the user declines the automated run and drives the agent manually. It
// documents the full I/O contract so a single manual agent session can
// produce every artifact.
func OrchestrationPrompt(query, outputDir, workDir string) string {
	var b strings.Builder
	b.WriteString("# Research Orchestration\n\n")
	b.WriteString("You are orchestrating a comprehensive parallel research system. You have full control over the research process.\n\n")
	b.WriteString("## Research Query\n")
	fmt.Fprintf(&b, "**%s**\n\n", query)
	b.WriteString("## Output Directory\n")
	fmt.Fprintf(&b, "The wrapper will save files under: `%s`.\n\n", outputDir)
	b.WriteString("## Important I/O Contract\n")
	b.WriteString("- Do not write files or run commands. Print all outputs to stdout only.\n")
	b.WriteString("- Use the exact block tags below so the wrapper can parse your outputs:\n")
	fmt.Fprintf(&b, "  - %s ... %s\n", TagPlanBegin, TagPlanEnd)
	for i := 1; i <= 2; i++ {
		begin, end := RATags(i)
		fmt.Fprintf(&b, "  - %s ... %s\n", begin, end)
	}
	fmt.Fprintf(&b, "  - ... up to RA_%d as needed\n", MaxAssistants)
	fmt.Fprintf(&b, "  - %s ... %s\n", TagFinalBegin, TagFinalEnd)
	fmt.Fprintf(&b, "  - %s ... %s (REQUIRED)\n", TagSynthPromptBegin, TagSynthPromptEnd)
	b.WriteString("- All blocks should be valid markdown.\n\n")
	if workDir != "" {
		b.WriteString("## Working Directory Context\n")
		fmt.Fprintf(&b, "You are being launched from: `%s`.\n\n", workDir)
		b.WriteString("- Do not modify any files in that directory.\n")
		b.WriteString("- Do not run commands or write files. Print to stdout only.\n\n")
	}
	b.WriteString("## Your Tasks\n")
	b.WriteString("- Analyze the query and determine optimal research approach\n")
	fmt.Fprintf(&b, "- Decide how many research assistants to use (%d-%d based on query complexity)\n", MinAssistants, MaxAssistants)
	b.WriteString("- Create specific, focused research questions for each assistant\n")
	b.WriteString("- Assign clear roles (e.g., \"Technology Expert\", \"Economic Analyst\", etc.)\n")
	b.WriteString("- Coordinate the research in parallel\n\n")
	b.WriteString("## Research Process\n")
	b.WriteString("1. Planning Phase\n")
	fmt.Fprintf(&b, "   - Analyze: %q\n", query)
	b.WriteString("   - Determine the number of assistants needed\n")
	b.WriteString("   - Create research questions that cover all important angles\n")
	fmt.Fprintf(&b, "   - Print the plan inside %s ... %s\n\n", TagPlanBegin, TagPlanEnd)
	b.WriteString("Begin by analyzing the query and creating your research plan.\n")
	return b.String()
}

// FallbackPlanText renders the research-plan artifact when the planner did
// not emit a [BEGIN_PLAN] block.
func FallbackPlanText(query string, p Plan) string {
	var b strings.Builder
	b.WriteString("# Research Plan\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", query)
	fmt.Fprintf(&b, "**Mode:** Parallel (%d assistants)\n\n", p.AssistantCount)
	b.WriteString("## Assistant Roles\n")
	for i := 1; i <= p.AssistantCount; i++ {
		fmt.Fprintf(&b, "- RA-%d: %s\n", i, p.Focuses[i])
	}
	return b.String()
}
