package app

import (
	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/modules/env_vars"
	"github.com/specialistvlad/porterlens/modules/file_contents"
	"github.com/specialistvlad/porterlens/modules/literal"
	"github.com/specialistvlad/porterlens/modules/shell_command"
)

// coreModules is the definitive list of credential source modules compiled
// into the porterlens binary.
var coreModules = []credentials.Module{
	&literal.Module{},
	&env_vars.Module{},
	&file_contents.Module{},
	&shell_command.Module{},
}
