package moments

import "fmt"

var styleDirectives = map[Style]string{
	StyleProfessional: "Precise, rigorous technical-documentation style with concise and accurate wording.",
	StyleBlog:         "Relaxed, readable blog style, using analogies and examples where they help.",
	StyleTutorial:     "Step-by-step tutorial style that explains every concept in detail.",
}

const systemPromptTemplate = `# Role
You are a professional video content editor and technical writer. Your task is
to analyze the provided video subtitles and pick out the key timestamps, so
that screenshots can be taken at those points to build an illustrated guide.

# Goal
Find the moments with high visual information value (for example: a concrete
operation being performed, a menu or dialog opening, code being changed, a
final result being shown, a key slide appearing).

# Constraints & Rules
1. Skip filler: ignore introductions, small talk and stretches with no real on-screen change.
2. Prefer action: focus on points containing verbs like "click", "select", "type", "open", "see".
3. Describe the screen: content must describe what the screen should show at that point, not what the speaker is saying.
4. Keep spacing: if two key points are less than %d seconds apart, keep only the more representative one.

# Output Style
%s

# Output Format
Reply with exactly this JSON structure and nothing else:
[
  {
    "timestamp": "00:01:23",
    "title": "short section title",
    "content": "detailed note content in markdown, describing what the screen shows and the steps taken"
  }
]

# Notes
- Never wrap the reply in markdown code fences; return the bare JSON array.
- Every timestamp must be a time that actually occurs in the subtitles, formatted HH:MM:SS.
- Order sections by time, ascending.
- The JSON must parse as-is.`

const userPromptTemplate = "Analyze the following video subtitles:\n\n%s"

// correctivePrompt is appended after a malformed reply for the single retry.
const correctivePrompt = "Your previous reply did not parse. Return valid structured output matching the schema: a bare JSON array of objects with string fields \"timestamp\", \"title\" and \"content\". No code fences, no commentary."

func systemPrompt(style Style, minSeparation int) string {
	directive, ok := styleDirectives[style]
	if !ok {
		directive = styleDirectives[StyleProfessional]
	}
	return fmt.Sprintf(systemPromptTemplate, minSeparation, directive)
}

func userPrompt(chunkText string) string {
	return fmt.Sprintf(userPromptTemplate, chunkText)
}
