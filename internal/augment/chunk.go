package augment

// defaultTokenBudget caps the estimated tokens per invocation chunk. The
// translator Lambdas run in 384MB of memory; around 3000 tokens per chunk
// keeps them comfortably inside it.
const defaultTokenBudget = 3000

// estimateTokens approximates the model token count of a sentence, about
// four characters per token for Latin-script text. Non-empty sentences
// count at least one token.
func estimateTokens(sentence string) int {
	if sentence == "" {
		return 0
	}
	if n := len(sentence) / 4; n > 0 {
		return n
	}
	return 1
}

// chunkByBudget groups sentences, in order, into chunks whose estimated
// token totals stay within budget. Sentences are never split; a sentence
// that alone exceeds the budget travels as its own chunk. A budget of
// zero or less falls back to defaultTokenBudget.
func chunkByBudget(sentences []string, budget int) [][]string {
	if budget <= 0 {
		budget = defaultTokenBudget
	}

	var (
		chunks  [][]string
		current []string
		used    int
	)
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			used = 0
		}
	}

	for _, sentence := range sentences {
		cost := estimateTokens(sentence)
		if cost > budget {
			flush()
			chunks = append(chunks, []string{sentence})
			continue
		}
		if used+cost > budget {
			flush()
		}
		current = append(current, sentence)
		used += cost
	}
	flush()

	return chunks
}
