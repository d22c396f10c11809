package extract

import "strings"

const EntityExtractionPromptTemplate = `You are an entity and relation extractor for a document knowledge base.
Extract only entities and relationships explicitly present in the input text.
Do not infer beyond the text.

Output STRICT JSON with this schema:
{
  "entities": [
    {"name": "string", "type": "person|organization|product|location|concept|event"}
  ],
  "relations": [
    {"source": "string", "target": "string", "relation": "RELATED_TO|PART_OF|WORKS_FOR|LOCATED_IN|PRODUCES|MENTIONS|DEPENDS_ON|COMPETES_WITH"}
  ]
}

Rules:
- Emit at most 15 entities and 10 relations.
- Relation source and target must appear in the entities list.
- If nothing is extractable, return {"entities":[],"relations":[]}.
`

func BuildChunkExtractionPrompt(fileName, chunkText string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "Untitled Document"
	}
	return EntityExtractionPromptTemplate + "\n\nDocument: " + name + "\n\nChunk:\n" + chunkText
}

const FAQPromptTemplate = `You are a support content writer. Based only on the provided document
excerpts, write frequently asked questions a reader of these documents might have.

Output STRICT JSON: an array of objects with keys "question" and "answer".
Rules:
- Write between 3 and 8 FAQ items.
- Answers must be grounded in the excerpts; do not invent facts.
- If the excerpts contain nothing answerable, return [].
`

func BuildFAQPrompt(excerpts []string) string {
	var sb strings.Builder
	sb.WriteString(FAQPromptTemplate)
	sb.WriteString("\n\nExcerpts:\n")
	for i, e := range excerpts {
		sb.WriteString("---\n")
		sb.WriteString(strings.TrimSpace(e))
		sb.WriteString("\n")
		if i >= 19 {
			break
		}
	}
	return sb.String()
}

const AnswerPromptTemplate = `You are a document assistant. Answer the user's question using only the
provided context passages. If the context does not contain the answer, say so.
Cite nothing; answer in plain prose.
`

func BuildAnswerPrompt(question string, passages []string) string {
	var sb strings.Builder
	sb.WriteString(AnswerPromptTemplate)
	sb.WriteString("\nContext:\n")
	for _, p := range passages {
		sb.WriteString("---\n")
		sb.WriteString(strings.TrimSpace(p))
		sb.WriteString("\n")
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(strings.TrimSpace(question))
	return sb.String()
}
