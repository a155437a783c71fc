package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key thresholds.

func describeAnalyze() string {
	return `Runs the full analysis: lines of code, cyclomatic complexity, and token-based clone detection.

USE WHEN:
- Getting a first overview of an unfamiliar codebase
- Producing a single health report before a review or release
- Comparing size, complexity and duplication in one pass

INTERPRETING RESULTS:
- File complexity is 1 + the number of decision points in the file
- Complexity above the warning threshold (default 10) deserves a look
- Complexity above the error threshold (default 20) is a refactoring candidate
- high_complexity_files counts files scoring above 20
- duplication_ratio is duplicated lines over physical lines

METRICS RETURNED:
- Per-file: language, physical/logical/comment/blank lines, file complexity, functions
- Clones: groups of identical token windows with file and line ranges
- Summary: totals, average/median/P90/max complexity, clone groups, duplication ratio

Supports Rust, JavaScript, TypeScript, Go, Java and C++.`
}

func describeComplexity() string {
	return `Measures McCabe cyclomatic complexity per file and per detected function.

USE WHEN:
- Identifying functions that are hard to test or maintain
- Finding refactoring candidates before code reviews
- Checking whether a change pushed a file over a threshold

INTERPRETING RESULTS:
- Complexity 1-10: low risk, simple control flow
- Complexity 11-20: moderate, consider splitting
- Complexity 21-50: high, hard to test exhaustively
- Complexity > 50: very high, strong refactoring candidate
- Decision points are if, else if, while, for, loop, match, switch, case, catch, &&, || and ?
- Functions are found by their fn, func or function keyword and brace-balanced body

METRICS RETURNED:
- Per-file: file_complexity, functions (name, line, complexity), line counts
- Summary: average, median, P90 and max complexity, high complexity file count`
}

func describeClones() string {
	return `Detects duplicated code using a rolling hash over windows of significant tokens.

USE WHEN:
- Finding copy-paste code that should be refactored
- Identifying candidates for shared utilities or abstractions
- Measuring how much of a codebase is duplicated

INTERPRETING RESULTS:
- A clone group is one token sequence found at two or more distinct locations
- Comments and whitespace are ignored, so reformatted copies still match
- Identifier names must match exactly; renamed copies are not reported
- Larger min_tokens reduces noise from trivial duplicates
- verify=true compares token text to rule out hash collisions

METRICS RETURNED:
- Clones: id, length in tokens, locations (file, start_line, end_line)
- Summary: groups, occurrences, duplicated lines, duplication ratio
- Hotspots: files with the most duplicated lines`
}

func describeLOC() string {
	return `Counts physical, logical, comment and blank lines and ranks files or directories.

USE WHEN:
- Sizing a codebase or a subsystem
- Finding the largest files or directories
- Checking comment density

INTERPRETING RESULTS:
- physical = logical + comments + blank for every file
- A line with any code is logical even if it also has a comment
- Lines inside block comments count as comments
- rank_by selects the ranking metric; rank_dirs groups files by directory

METRICS RETURNED:
- Files or directories ranked by the chosen metric, descending
- Summary: total files and line counts`
}
