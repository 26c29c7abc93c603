package eval

import (
	"fmt"
	"log"

	"github.com/fatih/color"

	"github.com/symtrace/symtrace/ir"
	"github.com/symtrace/symtrace/message"
)

var (
	debugIPColor  = color.New(color.FgHiMagenta, color.Bold).SprintFunc()
	debugMsgColor = color.New(color.FgHiGreen).SprintFunc()
)

// watchingIP reports whether the currently committed IP matches the
// configured debug IP; this is the only condition under which the debug
// side channel fires.
func (s *State) watchingIP() bool {
	return s.Options.DebugIP != nil && s.currentIP != nil && *s.Options.DebugIP == *s.currentIP
}

// debugInst mirrors a processed (instruction, event) pair to the debug
// side channel when current_ip matches the configured debug IP. This is
// the only observable effect debug mode has on the run: it never alters
// what gets built or emitted.
func (s *State) debugInst(inst ir.Instruction) {
	if !s.watchingIP() {
		return
	}
	log.Printf("%s %s", debugIPColor(fmt.Sprintf("[ip=0x%x]", *s.currentIP)), ir.InstString(inst, true))
}

func (s *State) debugMessage(m message.Message) {
	if !s.watchingIP() {
		return
	}
	log.Printf("%s %s", debugIPColor("[msg]"), debugMsgColor(m.String()))
}

func (s *State) debugWarn(text string) {
	if !s.watchingIP() {
		return
	}
	log.Printf("%s %s", debugIPColor("[warn]"), text)
}
