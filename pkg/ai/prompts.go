package ai

// System prompts paired with the task prompts below.
const (
	ExtractionSystemPrompt      = `You are an expert at analyzing marketing content and extracting structured information.`
	ClassifySystemPrompt        = `You are an expert at classifying queries.`
	EntitySummarySystemPrompt   = `You are a marketing expert providing insights about companies and tools.`
	TopicSummarySystemPrompt    = `You are a marketing expert providing insights about marketing topics.`
	TrendSummarySystemPrompt    = `You are a marketing expert analyzing trends and developments.`
	RelationSummarySystemPrompt = `You are a marketing expert analyzing relationships between companies and tools.`
	GeneralSummarySystemPrompt  = `You are a marketing expert providing comprehensive answers to queries.`
	CondenseSystemPrompt        = `You are an assistant that condenses marketing articles into short, faithful summaries.`
)

// ExtractionPrompt asks the model to pull entities, relationships, topics,
// insights and trends out of an article. Placeholder: article text
// (title + summary).
const ExtractionPrompt = `
# Task Context
You are analyzing a marketing article to build a knowledge graph.

# Background Data
Article:
%s

# Detailed Task Description & Rules
Extract from the article:
1. Key entities (companies, tools, platforms, concepts, people)
2. Relationships between entities
3. Topics and categories
4. Key insights and trends

# Output Formatting
Return the analysis in this JSON format:
{
  "entities": [
    {"name": "entity_name", "type": "COMPANY|TOOL|PLATFORM|CONCEPT|PERSON|TOPIC"}
  ],
  "relationships": [
    {"from": "entity1", "to": "entity2", "relationship": "relationship_type", "description": "description"}
  ],
  "topics": ["topic1", "topic2"],
  "insights": ["insight1", "insight2"],
  "trends": ["trend1", "trend2"]
}
`

// ClassifyPrompt routes a natural language question to one of the five query
// handlers. Placeholder: the user query.
const ClassifyPrompt = `
# Task Context
You are routing questions against a marketing knowledge base.

# Detailed Task Description & Rules
Classify this marketing knowledge base query into one of these categories:
- entity_search: Looking for information about a specific company, tool, or platform
- topic_search: Looking for information about a marketing topic or concept
- trending: Asking about trends, what's popular, or recent developments
- relationship_search: Asking about relationships between entities or how things connect
- general_search: General information search

# Immediate Task Description or Request
Query: "%s"

# Output Formatting
Return only the category name.
`

// EntitySummaryPrompt produces a 2-3 paragraph summary about a single entity.
// Placeholders: entity, entity, context.
const EntitySummaryPrompt = `
Based on the following information about %s, provide a concise summary of:
1. What %s is known for in marketing
2. Recent developments or mentions
3. Key relationships with other entities

Information:
%s

Provide a professional, informative summary in 2-3 paragraphs.
`

// TopicSummaryPrompt produces a 2-3 paragraph summary about a marketing
// topic. Placeholders: topic, topic, context.
const TopicSummaryPrompt = `
Based on the following information about %s, provide a concise summary of:
1. Current state and importance of %s in marketing
2. Recent developments and trends
3. Key insights and best practices

Information:
%s

Provide a professional, informative summary in 2-3 paragraphs.
`

// TrendingSummaryPrompt summarizes what is currently gaining attention.
// Placeholder: context (trending topic list plus recent article titles).
const TrendingSummaryPrompt = `
Based on the following trending topics and recent articles, provide a summary of:
1. Current marketing trends and hot topics
2. What's gaining attention in the marketing world
3. Key insights about recent developments

Information:
%s

Provide a professional, informative summary in 2-3 paragraphs.
`

// RelationshipSummaryPrompt summarizes how a set of entities relate.
// Placeholders: comma-joined entity list, context.
const RelationshipSummaryPrompt = `
Based on the following information about %s, provide a summary of:
1. How these entities relate to each other in marketing
2. Their roles and interactions
3. Key insights about their relationship

Information:
%s

Provide a professional, informative summary in 2-3 paragraphs.
`

// GeneralSummaryPrompt answers an arbitrary query from retrieved articles.
// Placeholders: query, context.
const GeneralSummaryPrompt = `
Based on the following articles, provide a comprehensive answer to: "%s"

Articles:
%s

Provide a professional, informative answer that directly addresses the query.
`

// CondensePrompt shortens raw article text ahead of graph extraction.
// Placeholders: title, body.
const CondensePrompt = `
# Task Context
You are preparing a marketing article for knowledge extraction.

# Background Data
Title: %s

Body:
%s

# Detailed Task Description & Rules
- Summarize the article in 3-5 sentences.
- Keep every company, tool, platform and person name that appears.
- Do not add information that is not in the body.

# Output Formatting
Return only the summary text, no preamble.
`
