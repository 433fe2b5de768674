package dxf

// Block is one block definition from the BLOCKS section.
type Block struct {
	Name string

	doc        *Document
	start, end int // tag range between BLOCK and ENDBLK, exclusive of both
}

// Blocks returns every block definition in the document, in file order.
func (d *Document) Blocks() []Block {
	var blocks []Block

	start, end, ok := d.section("BLOCKS")
	if !ok {
		return nil
	}

	for i := start; i < end; i++ {
		if d.tags[i].Code != 0 || d.tags[i].Value != "BLOCK" {
			continue
		}
		b := Block{doc: d, start: i + 1}
		j := i + 1
		for ; j < end; j++ {
			if d.tags[j].Code == 0 && d.tags[j].Value == "ENDBLK" {
				break
			}
			if b.Name == "" && d.tags[j].Code == 2 {
				b.Name = d.tags[j].Value
			}
		}
		b.end = j
		blocks = append(blocks, b)
		i = j
	}
	return blocks
}

// section locates the tag range of a named SECTION, exclusive of the
// SECTION/ENDSEC markers.
func (d *Document) section(name string) (start, end int, ok bool) {
	for i := 0; i < len(d.tags)-1; i++ {
		if d.tags[i].Code != 0 || d.tags[i].Value != "SECTION" {
			continue
		}
		if d.tags[i+1].Code != 2 || d.tags[i+1].Value != name {
			continue
		}
		for j := i + 2; j < len(d.tags); j++ {
			if d.tags[j].Code == 0 && d.tags[j].Value == "ENDSEC" {
				return i + 2, j, true
			}
		}
		return i + 2, len(d.tags), true
	}
	return 0, 0, false
}

// MText is a handle on one MTEXT entity's text content. The full text is
// spread over optional code 3 continuation chunks followed by a code 1 tag.
type MText struct {
	doc      *Document
	textTags []int // indexes of the entity's code 3 and code 1 tags, in order
}

// MTexts returns handles for every MTEXT entity inside the block.
func (b Block) MTexts() []*MText {
	var texts []*MText

	for i := b.start; i < b.end; i++ {
		if b.doc.tags[i].Code != 0 || b.doc.tags[i].Value != "MTEXT" {
			continue
		}
		m := &MText{doc: b.doc}
		for j := i + 1; j < b.end && b.doc.tags[j].Code != 0; j++ {
			if b.doc.tags[j].Code == 3 || b.doc.tags[j].Code == 1 {
				m.textTags = append(m.textTags, j)
			}
			i = j
		}
		texts = append(texts, m)
	}
	return texts
}

// Text returns the entity's full text with continuation chunks joined.
func (m *MText) Text() string {
	var s string
	for _, i := range m.textTags {
		s += m.doc.tags[i].Value
	}
	return s
}

// SetText replaces the entity's text. The value lands in the code 1 tag;
// continuation chunks are blanked. Title-block fields are short, so chunking
// long values back out is not needed.
func (m *MText) SetText(s string) {
	if len(m.textTags) == 0 {
		return
	}
	last := m.textTags[len(m.textTags)-1]
	for _, i := range m.textTags {
		if i == last {
			m.doc.tags[i].Value = s
		} else {
			m.doc.tags[i].Value = ""
		}
	}
}
