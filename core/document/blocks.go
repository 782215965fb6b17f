package document

import "time"

// Kind tags a content block variant.
type Kind int

const (
	KindHeading Kind = iota
	KindKeyValue
	KindParagraph
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindKeyValue:
		return "keyvalue"
	case KindParagraph:
		return "paragraph"
	case KindPageBreak:
		return "pagebreak"
	}
	return "unknown"
}

// Block is one renderable content element. The rendering engine consumes the
// ordered block sequence and owns all layout decisions.
type Block struct {
	Kind  Kind   `json:"kind"`
	Level int    `json:"level,omitempty"` // heading level, 1 is largest
	Key   string `json:"key,omitempty"`   // left column of a key/value row
	Text  string `json:"text,omitempty"`
}

func heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Text: text}
}

func keyValue(key, text string) Block {
	return Block{Kind: KindKeyValue, Key: key, Text: text}
}

func paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

func pageBreak() Block {
	return Block{Kind: KindPageBreak}
}

// Plan is the compiled document for one mission. MissionKey, MissionDate and
// ResourceNames carry everything the caller's file-naming convention needs
// (date-derived subdirectory, concatenated resource names, mission key).
type Plan struct {
	MissionKey    string    `json:"mission_key"`
	MissionDate   time.Time `json:"mission_date"`
	ResourceNames []string  `json:"resource_names"`
	Warnings      []string  `json:"warnings,omitempty"`
	Blocks        []Block   `json:"blocks"`
}
