// Package encoding converts the raw code units of a text entry to and from a
// sequence of tokens.
//
// A text entry mixes plain text with inline control codes ("tags") that the
// game interprets: colour changes, pauses, variable substitution, ruby text and
// so on. Tags are framed by two reserved code units:
//
//	0x0E  group:u16  type:u16  size:u16  params:[size]byte   tag
//	0x0F  group:u16  type:u16                                end tag
//
// In UTF-16 containers the markers are full code units; in UTF-8 containers
// they are single bytes. Every numeric field follows the container byte order
// and params are opaque bytes. Because size counts bytes, a tag may leave the
// following text at an odd byte offset; the tokenizer walks bytes, not code
// units, to cope with that.
//
// Tokenize and Detokenize are exact inverses for every input Tokenize accepts,
// so decoding and re-encoding a container never changes its text bytes.
// Tags and end tags are not paired or validated: unbalanced markers pass
// through unchanged.
//
// # Basic Usage
//
//	tokens, err := encoding.Tokenize(run, engine, format.UTF16)
//	if err != nil {
//	    return err
//	}
//	for _, tok := range tokens {
//	    switch tok.Kind {
//	    case encoding.KindText:
//	        fmt.Print(tok.Text)
//	    case encoding.KindTag:
//	        fmt.Printf("<%d.%d>", tok.Group, tok.Type)
//	    }
//	}
//
//	raw, err := encoding.Detokenize(tokens, engine, format.UTF16)
package encoding
