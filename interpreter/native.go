package interpreter

import "time"

// registerNatives installs the natively-implemented functions every Lox
// program can call without declaring them first.
func registerNatives(env *Environment) {
	env.define("clock", &NativeFunction{
		Name:  "clock",
		Arity: 0,
		Fn: func(i *TreeWalkInterpreter, arguments []any) any {
			return float64(time.Now().UnixNano()) / float64(time.Second)
		},
	})
}
