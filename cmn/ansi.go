package cmn

import (
	"strconv"
	"strings"
)

/*
	ansi escape sequences for console output.

	print red text:

		fmt.Printf("%vHello World%v\n", cmn.ForeRed, cmn.AttrOff)

	attribute, foreground and background occupy separate bytes
	so they can be or-ed together:

		cmn.AttrBold|cmn.ForeMagenta
*/
type AnsiFlag uint32

const (
	AttrOff AnsiFlag = iota
	AttrBold
	_
	_
	AttrUnderscore
	AttrBlink
	_
	AttrReverseVideo
	AttrConcealed
)

const (
	ForeBlack AnsiFlag = (iota + 30) << 8
	ForeRed
	ForeGreen
	ForeYellow
	ForeBlue
	ForeMagenta
	ForeCyan
	ForeWhite
)

const (
	BackBlack AnsiFlag = (iota + 40) << 16
	BackRed
	BackGreen
	BackYellow
	BackBlue
	BackMagenta
	BackCyan
	BackWhite
)

func (f AnsiFlag) String() string {
	var parts []string
	for i := 0; i < 3; i++ {
		if b := f & 0xFF; b != 0 {
			parts = append(parts, strconv.Itoa(int(b)))
		}
		f >>= 8
	}
	if len(parts) == 0 {
		return "\033[0m"
	}
	return "\033[" + strings.Join(parts, ";") + "m"
}
