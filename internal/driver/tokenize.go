package driver

import (
	"paxy/internal/lexer"
	"paxy/internal/source"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Lines   []lexer.Line
}

// Tokenize lexes path without parsing it. On a lexical error the result
// still carries the loaded file so the caller can show a snippet.
func Tokenize(path string, opts lexer.Options) (*TokenizeResult, error) {
	fileSet, file, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	res := &TokenizeResult{FileSet: fileSet, File: file}
	res.Lines, err = lexer.Lex(file, opts)
	if err != nil {
		return res, err
	}
	return res, nil
}
