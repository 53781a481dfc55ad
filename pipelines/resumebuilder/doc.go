// Package resumebuilder is a two-step workflow that drafts resume bullet
// points for a job description:
//
//	START → LOOKUP_EXPERIENCE → GENERATE_BULLET_POINTS → END
//
// LOOKUP_EXPERIENCE retrieves the most relevant experience entries from a
// vector store; GENERATE_BULLET_POINTS asks a chat model for structured
// output and stores the decoded bullet points.
package resumebuilder
