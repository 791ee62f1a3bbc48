/*
Package sfnt assembles SFNT-style binary font containers from declarative
table schemas.

We implement:

1. A Registry, the ordered list of tables making up a font. Each table has a
name, a 4-byte tag and a record schema (see package record).

2. A Font, holding one live record per registered table. Callers mutate the
records (set scalars, append list elements) and then call Assemble.

3. Assembly into memory (Assemble), into a caller-provided buffer
(AssembleInto) or straight into a memory-mapped file (WriteFile).

4. A Store, keeping named snapshots of table values and assembled fonts in
Bolt.

# Technical Details

**Container layout.**
A 12-byte header, then one 16-byte directory entry per table, then the table
payloads back to back in registry order. All integers are big-endian.

**Header**:
1. sfntVersion, 0x00010000 (uint32).
2. numTables (uint16).
3. searchRange = 2^entrySelector * 16 (uint16).
4. entrySelector = floor(log2(numTables)) (uint16).
5. rangeShift = numTables * 16 (uint16). With Options.StandardRangeShift,
numTables * 16 - searchRange. A font with no tables has all three set to 0.

**Directory entry**: tag, checksum (always 0), offset from the start of the
font, payload length. Offsets are contiguous: the first table starts right
after the directory and each next one starts where the previous ended.

**Encoding problems.**
A leaf that cannot be encoded (missing, out of range, unsupported size) still
occupies its bytes, so the layout never shifts. Problems are returned in
Output.Problems and logged at WARN. With Options.Strict, the first problem
aborts assembly.

**Snapshots** are msgpack maps of table name to record values (see
record.Export), written with sorted keys so equal fonts produce equal bytes.

**Store buckets**: "snapshots" (name to snapshot), "builds" (name to
assembled bytes), "buildinfo" (name to msgpack BuildInfo).
*/
package sfnt
