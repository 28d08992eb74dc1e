package shell

import (
	"errors"
	"net/http"
	"time"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

const scriptHTTPTimeout = 30 * time.Second

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("wordle_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand exposes a shell command to Lua. The single optional string
// argument is parsed exactly like the rest of a shell line. On failure the
// function returns nil and the error message.
func luaCommand(name string, run func(*ShellController, *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		sc := getShell(L)
		line := name
		if lv := L.OptString(1, ""); lv != "" {
			line += " " + lv
		}
		cmd, err := extractFields(line)
		if err != nil {
			log.Err(err).Msg("error-parsing-" + name)
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		r, err := run(sc, cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		if r == nil {
			L.Push(lua.LString(""))
		} else {
			L.Push(lua.LString(r.message))
		}
		// return number of results pushed to stack.
		return 1
	}
}

var luaCommands = map[string]func(*ShellController, *shellcmd) (*Response, error){
	"best":      (*ShellController).best,
	"top":       (*ShellController).top,
	"constrain": (*ShellController).constrain,
	"remaining": (*ShellController).remaining,
	"reset":     (*ShellController).reset,
	"worstcase": (*ShellController).worstcase,
	"hardmode":  (*ShellController).hardmode,
	"autoplay":  (*ShellController).autoplay,
	"info":      (*ShellController).info,
}

func (sc *ShellController) newLuaState() *lua.LState {
	L := lua.NewState()
	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal("wordle_shell", lsc)
	for name, run := range luaCommands {
		L.SetGlobal("wordle_"+name, L.NewFunction(luaCommand(name, run)))
	}
	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{Timeout: scriptHTTPTimeout}).Loader)
	return L
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := sc.newLuaState()
	defer L.Close()

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
