package extract

const extractionSystemPrompt = `You analyze conversations between a senior engineer and an AI assistant and extract durable insights as structured JSON.`

const extractionPrompt = `Analyze this conversation between a senior engineer (25+ years experience) and an AI assistant.

Topic: %s
Date: %s

Extract valuable insights in these categories:
1. **Wisdom Nuggets**: Hard-won insights, mental models, counterintuitive learnings, architectural principles
2. **Product Ideas**: Business opportunities, feature ideas, market gaps, tool ideas
3. **Programming Tips**: Code patterns, debugging techniques, tool recommendations, best practices
4. **Questions Worth Revisiting**: Deep questions that deserve more exploration, unresolved problems

For each insight found, provide:
- category: one of ["wisdom", "product_idea", "programming_tip", "question"]
- title: concise title (5-10 words)
- summary: 2-3 sentence explanation of the insight
- tags: relevant keywords (3-5 tags)
- confidence: 0.0-1.0 how clearly this is a valuable, actionable insight

Focus on:
- Insights that show experienced engineering judgment
- Non-obvious solutions or approaches
- Reusable patterns or principles
- Ideas with real-world applicability

Skip generic advice or basic information. Return ONLY a valid JSON array, no other text. If no valuable insights, return [].

<conversation>
%s
</conversation>`

const summarySystemPrompt = `You summarize conversations between a senior engineer and an AI assistant as structured JSON.`

const summaryPrompt = `Summarize this conversation between a senior engineer and an AI assistant.

Topic: %s
Date: %s
Message count: %d

Provide a structured summary with:
- summary: 2-4 sentence overview of what was discussed and accomplished
- key_topics: array of 3-6 main topics/technologies discussed
- sentiment: the overall tone (one of: "technical", "exploratory", "debugging", "learning", "planning", "creative", "frustrated", "collaborative")
- outcome: what happened (one of: "resolved", "ongoing", "abandoned", "learning", "decision_made", "idea_generated")

Return ONLY a valid JSON object with these fields, no other text.

<conversation>
%s
</conversation>`
