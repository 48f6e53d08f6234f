package invocation

import (
	"fmt"
	"strings"
)

// FunctionName is the name of the shell function installed by shell-init.
const FunctionName = "devsetup"

const posixWrapper = `# devsetup shell integration. Load it with:
#   eval "$(devsetup shell-init)"
{{NAME}}() {
  local __devsetup_file __devsetup_rc
  __devsetup_file="$(mktemp "${TMPDIR:-/tmp}/devsetup.XXXXXX")" || return 1
  DEVSETUP_SOURCED=1 DEVSETUP_SHELL=posix DEVSETUP_ACTIVATE_FILE="$__devsetup_file" {{BIN}} "$@"
  __devsetup_rc=$?
  if [ -s "$__devsetup_file" ]; then
    . "$__devsetup_file"
  fi
  rm -f "$__devsetup_file"
  return $__devsetup_rc
}
`

const powerShellWrapper = `# devsetup shell integration. Load it with:
#   devsetup shell-init powershell | Out-String | Invoke-Expression
function {{NAME}} {
  $__devsetupFile = Join-Path ([IO.Path]::GetTempPath()) ("devsetup-" + [guid]::NewGuid().ToString() + ".ps1")
  $env:DEVSETUP_SOURCED = '1'
  $env:DEVSETUP_SHELL = 'powershell'
  $env:DEVSETUP_ACTIVATE_FILE = $__devsetupFile
  try {
    & {{BIN}} @args
    $__devsetupRc = $LASTEXITCODE
  } finally {
    Remove-Item Env:DEVSETUP_SOURCED, Env:DEVSETUP_SHELL, Env:DEVSETUP_ACTIVATE_FILE -ErrorAction SilentlyContinue
  }
  if ((Test-Path $__devsetupFile) -and ((Get-Item $__devsetupFile).Length -gt 0)) {
    . $__devsetupFile
  }
  Remove-Item $__devsetupFile -ErrorAction SilentlyContinue
  $global:LASTEXITCODE = $__devsetupRc
}
`

// WrapperScript renders the shell function that runs binPath in Sourced mode.
func WrapperScript(shell Shell, binPath string) (string, error) {
	var tmpl, bin string
	switch shell {
	case Posix:
		tmpl, bin = posixWrapper, quotePosix(binPath)
	case PowerShell:
		tmpl, bin = powerShellWrapper, quotePowerShell(binPath)
	default:
		return "", fmt.Errorf("unsupported shell: %s", shell)
	}
	r := strings.NewReplacer("{{NAME}}", FunctionName, "{{BIN}}", bin)
	return r.Replace(tmpl), nil
}
