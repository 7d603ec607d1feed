// Package msbt implements the logical model of an MSBT message container.
//
// A container stores a list of text entries. Each entry has a unique label,
// an optional fixed-size attribute record, an optional style index and its
// contents: a sequence of text runs and control code tags. The binary form
// spreads these over several blocks (LBL1 labels, ATR1 attributes, TSY1
// styles, TXT2 text) plus blocks this package does not interpret.
//
// Decode turns a container into a Model; Model.Encode turns it back. Derived
// structures (the label hash table, the text offset table, block sizes) are
// never stored in the model; they are rebuilt on every Encode from the
// current entries, so a model can be edited freely between the two calls.
//
// Everything the model cannot derive is preserved: unknown header fields,
// per-block reserved bytes and padding filler, the label bucket count, the
// order of labels inside each bucket, trailing attribute bytes and the
// payloads of unknown blocks. As a result
//
//	m, _ := msbt.Decode(data)
//	out, _ := m.Encode()
//	bytes.Equal(data, out) // true for every container Decode accepts
//
// # Basic Usage
//
//	m, err := msbt.Decode(data)
//	if err != nil {
//	    return err
//	}
//
//	entry, ok := m.Entry("Armor_001_Head_Name")
//	if ok {
//	    entry.Contents = []encoding.Token{encoding.Text("Hylian Hood")}
//	    m.SetEntry(entry)
//	}
//
//	out, err := m.Encode(msbt.WithBigEndian())
//
// # Thread Safety
//
// A Model is not safe for concurrent mutation. Independent models may be used
// from different goroutines.
package msbt
