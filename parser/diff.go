package parser

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeType is the kind of a line-level change between source and output.
type ChangeType int

const (
	LineDeletion ChangeType = iota
	LineAddition
	LineModification
)

func (ct ChangeType) String() string {
	switch ct {
	case LineDeletion:
		return "deletion"
	case LineAddition:
		return "addition"
	case LineModification:
		return "modification"
	default:
		return "unknown"
	}
}

// LineChange is one changed line. Additions and modifications are numbered
// in the output; deletions in the source. Line numbers are 1-indexed.
type LineChange struct {
	Type       ChangeType
	LineNumber int
	Content    string // new content, or the deleted content for deletions
	OldContent string // for modifications
}

// ChangeSet lists the changes Output would make to the source, in order.
type ChangeSet struct {
	Changes          []LineChange
	LastAddition     int // -1 if no addition
	LastDeletion     int // -1 if no deletion
	LastModification int // -1 if no modification
}

// Additions returns the added lines in output order.
func (cs *ChangeSet) Additions() []LineChange {
	var out []LineChange
	for _, c := range cs.Changes {
		if c.Type == LineAddition {
			out = append(out, c)
		}
	}
	return out
}

func (cs *ChangeSet) IsEmpty() bool { return len(cs.Changes) == 0 }

// Changes diffs the source content against Output.
func (f *File) Changes() *ChangeSet {
	return analyzeChanges(f.content, f.Output())
}

// Patch returns a go-diff patch that turns the source content into Output.
// Apply it with diffmatchpatch's PatchFromText and PatchApply.
func (f *File) Patch() string {
	dmp := diffmatchpatch.New()
	output := f.Output()
	patches := dmp.PatchMake(f.content, lineDiffs(dmp, f.content, output))
	return dmp.PatchToText(patches)
}

// lineDiffs runs a line-mode diff between two texts.
func lineDiffs(dmp *diffmatchpatch.DiffMatchPatch, text1, text2 string) []diffmatchpatch.Diff {
	chars1, chars2, lineArray := dmp.DiffLinesToChars(text1, text2)
	diffs := dmp.DiffMain(chars1, chars2, false)
	return dmp.DiffCharsToLines(diffs, lineArray)
}

func analyzeChanges(oldText, newText string) *ChangeSet {
	result := &ChangeSet{LastAddition: -1, LastDeletion: -1, LastModification: -1}

	// A trailing newline on both sides keeps the last line from diffing as
	// modified when something is appended after it.
	dmp := diffmatchpatch.New()
	diffs := lineDiffs(dmp, oldText+"\n", newText+"\n")

	oldLineNum, newLineNum := 0, 0
	for i := 0; i < len(diffs); i++ {
		lines := splitLines(diffs[i].Text)

		switch diffs[i].Type {
		case diffmatchpatch.DiffEqual:
			oldLineNum += len(lines)
			newLineNum += len(lines)

		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				inserted := splitLines(diffs[i+1].Text)
				result.addReplacement(lines, inserted, oldLineNum, newLineNum)
				oldLineNum += len(lines)
				newLineNum += len(inserted)
				i++
				continue
			}
			for j, line := range lines {
				result.add(LineChange{Type: LineDeletion, LineNumber: oldLineNum + j + 1, Content: line})
			}
			oldLineNum += len(lines)

		case diffmatchpatch.DiffInsert:
			for j, line := range lines {
				result.add(LineChange{Type: LineAddition, LineNumber: newLineNum + j + 1, Content: line})
			}
			newLineNum += len(lines)
		}
	}
	return result
}

// addReplacement pairs a delete+insert run line by line when the runs have
// the same length, and falls back to deletions followed by additions otherwise.
func (cs *ChangeSet) addReplacement(deleted, inserted []string, oldStart, newStart int) {
	if len(deleted) == len(inserted) {
		for j := range deleted {
			cs.add(LineChange{
				Type:       LineModification,
				LineNumber: newStart + j + 1,
				Content:    inserted[j],
				OldContent: deleted[j],
			})
		}
		return
	}
	for j, line := range deleted {
		cs.add(LineChange{Type: LineDeletion, LineNumber: oldStart + j + 1, Content: line})
	}
	for j, line := range inserted {
		cs.add(LineChange{Type: LineAddition, LineNumber: newStart + j + 1, Content: line})
	}
}

// add is the single entry point for recording a change.
func (cs *ChangeSet) add(c LineChange) {
	if c.Type == LineModification && c.Content == c.OldContent {
		return
	}
	cs.Changes = append(cs.Changes, c)
	switch c.Type {
	case LineAddition:
		cs.LastAddition = max(cs.LastAddition, c.LineNumber)
	case LineDeletion:
		cs.LastDeletion = max(cs.LastDeletion, c.LineNumber)
	case LineModification:
		cs.LastModification = max(cs.LastModification, c.LineNumber)
	}
}

// splitLines splits text by newline and removes trailing empty element if present
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
