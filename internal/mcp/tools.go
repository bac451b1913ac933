package mcp

import "github.com/mark3labs/mcp-go/mcp"

var lookupToolDef = mcp.NewTool("vocab_lookup",
	mcp.WithDescription("Look up a stored vocabulary word and its translation."),
	mcp.WithString("word",
		mcp.Required(),
		mcp.Description("The Russian word to look up, in lowercase."),
	),
)

var listToolDef = mcp.NewTool("vocab_list",
	mcp.WithDescription("List stored vocabulary words ordered alphabetically."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of words to return. 0 means all."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of words to skip from the start."),
	),
	mcp.WithBoolean("untranslated_only",
		mcp.Description("Return only words that have no translation yet."),
	),
)

var statsToolDef = mcp.NewTool("vocab_stats",
	mcp.WithDescription("Report the size of the vocabulary store and how much of it is translated."),
)

var processToolDef = mcp.NewTool("vocab_process",
	mcp.WithDescription("Extract Russian vocabulary from files or directories and merge new words into the store."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("Files or directories to process. Supported formats: txt, md, docx, pdf, png, jpg, jpeg."),
	),
)
