// Package convert translates between msbt models and structured documents.
//
// The canonical intermediate form is a mapping: an *OrderedMap tree whose
// leaves are strings, booleans, integers and byte slices. ToMapping and
// FromMapping convert a model to and from that tree; the JSON and YAML
// functions convert the tree to and from text, keeping key order, so entry
// order and token order survive every conversion.
//
// # Document Shape
//
//	msbt:
//	  byte_order: little        # little | big
//	  encoding: utf-16          # utf-16 | utf-8
//	  version: 3
//	  label_buckets: 101
//	  has_attributes: true
//	  attribute_size: 4
//	  attribute_extra: bnBjAA== # base64
//	  has_styles: false
//	  header: {unknown1: 0, unknown2: 0, reserved: AAAAAAAAAAAAAA==}
//	  blocks:
//	    - {magic: LBL1}
//	    - {magic: NLI1, data: AQIDBA==}
//	    - {magic: ATR1}
//	    - {magic: TXT2, pad: 0}
//	entries:
//	  Armor_001_Head_Name:
//	    attributes: AQAAAA==
//	    contents:
//	      - text: "Press "
//	      - tag: {group: 0, type: 3, params: AAACAA==}
//	      - text: A
//	      - end_tag: {group: 0, type: 3}
//
// Every field under msbt is optional; absent fields take the values a fresh
// msbt.New model would use, and has_attributes and attribute_size are
// inferred from the entries. Byte fields are base64 strings in JSON and YAML
// and []byte values in a mapping (base64 strings are accepted there too).
//
// The order of labels inside label hash buckets is not part of the document,
// so a container whose buckets were not in entry order re-encodes with
// different LBL1 bytes after a trip through a document.
//
// Malformed documents fail with errors wrapping errs.ErrSchema.
package convert
