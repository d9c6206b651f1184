package app

import "fmt"

// systemInstruction is sent as the system message of every completion.
const systemInstruction = "You are a helpful documentation assistant. " +
	"Always answer strictly in the same language as the user's question. " +
	"When your answer contains code, put it in fenced code blocks labelled with the language, for example ```go."

const strictTemplate = `Answer the user's question using only the documentation context below.
If the answer is not contained in the context, say that you cannot find the answer in the provided documentation and do not use any outside knowledge.

Context:
---
%s
---

User Question: %s

Answer:`

const permissiveTemplate = `Answer the user's question using the documentation context below as your primary source.
If the context does not contain the answer, you may answer from your general knowledge, but clearly state that the answer is not based on the provided documentation.

Context:
---
%s
---

User Question: %s

Answer:`

// BuildPrompt renders the strict or permissive template. Query and context
// are embedded verbatim.
func BuildPrompt(query, context string, strict bool) string {
	if strict {
		return fmt.Sprintf(strictTemplate, context, query)
	}
	return fmt.Sprintf(permissiveTemplate, context, query)
}
