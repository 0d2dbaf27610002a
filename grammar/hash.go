package grammar

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/cnf/structhash"
)

// Key identifies a grammar expression by its structure. Two expressions have the same key
// exactly when their canonical renderings are the same.
type Key [sha1.Size]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:4])
}

type exprTag int

const (
	tagToken exprTag = iota + 1
	tagVariable
	tagAlternation
	tagConcatenation
	tagGroup
	tagOptional
	tagRepetition
	tagRule
)

// structNode is the shape structhash digests. Children are referred to by their own
// keys, so hashing a tree never walks further than one level.
type structNode struct {
	Tag      int
	Kind     int
	Text     string
	Flag     bool
	Children []string
}

const hashVersion = 1

func hashNode(tag exprTag, kind int, text string, flag bool, children ...Key) Key {
	n := structNode{
		Tag:  int(tag),
		Kind: kind,
		Text: text,
		Flag: flag,
	}
	if len(children) > 0 {
		n.Children = make([]string, len(children))
		for i, c := range children {
			n.Children[i] = hex.EncodeToString(c[:])
		}
	}
	var k Key
	copy(k[:], structhash.Sha1(n, hashVersion))
	return k
}

func keysOf(exprs []Expression) []Key {
	keys := make([]Key, len(exprs))
	for i, e := range exprs {
		keys[i] = e.Key()
	}
	return keys
}
