package prompts

import (
	"fmt"
	"strings"
)

// ============================================================================
// Answer Generation
// ============================================================================

// InsufficiencyPhrase is what the model is instructed to reply when the
// retrieved context cannot answer the question. The instruction is a prompt
// contract, not a guarantee; callers must not assume the model always honors
// it verbatim.
const InsufficiencyPhrase = "I don't know."

// ContextSeparator joins retrieved chunks into the context block. Chunks keep
// their retrieval order.
const ContextSeparator = "\n\n"

// AnswerPromptTemplate grounds the model in the retrieved transcript context.
// The first placeholder receives the joined context block, the second the
// user's question.
const AnswerPromptTemplate = `You are a helpful assistant.
Answer ONLY from the provided context.
If the context is insufficient, say "` + InsufficiencyPhrase + `"

%s

Question: %s`

// BuildAnswerPrompt renders the grounding prompt for a question and its
// retrieved context chunks.
func BuildAnswerPrompt(question string, contexts []string) string {
	return fmt.Sprintf(AnswerPromptTemplate, strings.Join(contexts, ContextSeparator), question)
}
