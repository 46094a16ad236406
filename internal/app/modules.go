package app

import (
	"github.com/vk/fibbench/internal/registry"
	"github.com/vk/fibbench/modules/goscript"
	"github.com/vk/fibbench/modules/jsengine"
	"github.com/vk/fibbench/modules/native"
)

// coreModules is the definitive list of all case modules compiled into the
// fibbench binary.
var coreModules = []registry.Module{
	&jsengine.Module{},
	&goscript.Module{},
	&native.Module{},
}
