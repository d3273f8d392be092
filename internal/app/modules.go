package app

import (
	"github.com/vk/jobgridgo/internal/registry"
	"github.com/vk/jobgridgo/modules/counter"
	"github.com/vk/jobgridgo/modules/recycle"
	"github.com/vk/jobgridgo/modules/skin"
	"github.com/vk/jobgridgo/modules/sum"
)

// coreModules is the definitive list of all workload modules that are
// compiled into the jobgridgo binary.
var coreModules = []registry.Module{
	&counter.Module{},
	&sum.Module{},
	&skin.Module{},
	&recycle.Module{},
}
