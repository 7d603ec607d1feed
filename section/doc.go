// Package section defines the low-level binary structures of an MSBT container.
//
// It frames a container into blocks and decodes/encodes the payload of each
// block type the codec understands. It knows nothing about entries as a whole;
// the msbt package assembles blocks into a logical model.
//
// # Container Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	├─────────────────────────────────────────────────────────┤
//	│ Block 0: magic, size, reserved, payload, padding        │
//	├─────────────────────────────────────────────────────────┤
//	│ ...                                                     │
//	├─────────────────────────────────────────────────────────┤
//	│ Block N-1                                               │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field       | Type     | Description
//	-------|-------------|----------|----------------------------------
//	0-7    | Signature   | [8]byte  | "MsgStdBn"
//	8-9    | BOM         | [2]byte  | FE FF big-endian, FF FE little-endian
//	10-11  | Unknown1    | uint16   | preserved verbatim
//	12     | Encoding    | uint8    | 0 = UTF-8, 1 = UTF-16
//	13     | Version     | uint8    | conventionally 3
//	14-15  | BlockCount  | uint16   | number of blocks
//	16-17  | Unknown2    | uint16   | preserved verbatim
//	18-21  | FileSize    | uint32   | total container size in bytes
//	22-31  | Reserved    | [10]byte | preserved verbatim
//
// # Block Format
//
//	Bytes  | Field       | Type     | Description
//	-------|-------------|----------|----------------------------------
//	0-3    | Magic       | [4]byte  | LBL1, ATR1, TSY1, TXT2, ...
//	4-7    | Size        | uint32   | payload size, padding excluded
//	8-15   | Reserved    | [8]byte  | preserved verbatim
//	16-    | Payload     | []byte   |
//	       | Padding     | []byte   | filler up to the next 16 byte boundary
//
// # Block Payloads
//
//   - LBL1 (LabelTable): bucketed hash table mapping labels to entry indices.
//   - ATR1 (AttributeTable): one fixed-size opaque record per entry.
//   - TSY1 (StyleTable): one uint32 style index per entry.
//   - TXT2 (TextTable): offset table plus NUL-terminated code-unit runs.
//
// Any other magic is carried as an opaque Block and written back unchanged.
//
// All multi-byte fields use the byte order selected by the header BOM.
package section
