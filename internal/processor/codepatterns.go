package processor

import "regexp"

// blockDelim is a start/end pair for multi-line comments.
type blockDelim struct {
	start, end string
}

// language describes the textual heuristics used for one highlight tag.
// Regexes are matched against lines with surrounding whitespace removed.
type language struct {
	lineComments []string
	blocks       []blockDelim
	imports      *regexp.Regexp
	functions    *regexp.Regexp
	classes      *regexp.Regexp
	// notFunction rejects statements the function pattern would otherwise
	// match, such as "return foo(x)".
	notFunction *regexp.Regexp
	docstrings  bool
}

var (
	cStyleBlock  = []blockDelim{{"/*", "*/"}}
	slashComment = []string{"//"}
	hashComment  = []string{"#"}
	markupBlock  = []blockDelim{{"<!--", "-->"}}

	cStatement = regexp.MustCompile(`^(return|else|new|throw|case|delete|goto|sizeof|if|while|for|switch|await)\b`)
)

var (
	javascript = &language{
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^(import\s.+\sfrom\s|import\s+['"]|(const|let|var)\s+.+=\s*require\()`),
		functions:    regexp.MustCompile(`^((export\s+)?(default\s+)?(async\s+)?function\*?\s+\w+|(export\s+)?(const|let|var)\s+\w+\s*=\s*(async\s+)?(\([^)]*\)|\w+)\s*=>|\w+\s*:\s*(async\s+)?function\b)`),
		classes:      regexp.MustCompile(`^(export\s+)?(default\s+)?class\s+\w+`),
	}
	typescript = &language{
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^(import\s.+\sfrom\s|import\s+['"]|import\s+\w+\s*=\s*require\()`),
		functions:    regexp.MustCompile(`^((export\s+)?(default\s+)?(async\s+)?function\*?\s+\w+|(export\s+)?(const|let)\s+\w+(\s*:\s*[^=]+)?\s*=\s*(async\s+)?\(.*\)\s*(:\s*[^=]+)?=>)`),
		classes:      regexp.MustCompile(`^(export\s+)?(default\s+)?(abstract\s+)?(class|interface)\s+\w+`),
	}
	shell = &language{
		lineComments: hashComment,
		imports:      regexp.MustCompile(`^(source|\.)\s+\S+`),
		functions:    regexp.MustCompile(`^(function\s+[\w-]+|[\w-]+\s*\(\s*\)\s*\{?)`),
	}
	cLang = &language{
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^#\s*include\s*[<"]`),
		functions:    regexp.MustCompile(`^(static\s+|inline\s+|extern\s+|const\s+|unsigned\s+|signed\s+)*\w+[\s*]+\w+\s*\([^;]*\)\s*\{?$`),
		classes:      regexp.MustCompile(`^(typedef\s+)?struct\s+\w+`),
		notFunction:  cStatement,
	}
	cppLang = &language{
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^#\s*include\s*[<"]`),
		functions:    regexp.MustCompile(`^(static\s+|inline\s+|virtual\s+|const\s+|unsigned\s+|constexpr\s+)*[\w:<>]+[\s*&]+[\w:~]+\s*\([^;]*\)\s*(const\s*)?(override\s*)?\{?$`),
		classes:      regexp.MustCompile(`^(template\s*<.*>\s*)?(class|struct)\s+\w+`),
		notFunction:  cStatement,
	}
	markup = &language{blocks: markupBlock}
	css    = &language{blocks: cStyleBlock}
	cssPre = &language{lineComments: slashComment, blocks: cStyleBlock}
)

// languages is keyed by descriptor highlight tag.
var languages = map[string]*language{
	"python": {
		lineComments: hashComment,
		blocks:       []blockDelim{{`"""`, `"""`}, {"'''", "'''"}},
		imports:      regexp.MustCompile(`^(import\s+\w+|from\s+[\w.]+\s+import\b)`),
		functions:    regexp.MustCompile(`^(async\s+)?def\s+\w+\s*\(`),
		classes:      regexp.MustCompile(`^class\s+\w+`),
		docstrings:   true,
	},
	"java": {
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^import\s+(static\s+)?[\w.*]+\s*;`),
		functions:    regexp.MustCompile(`^((public|private|protected|static|final|abstract|synchronized|native|default)\s+)*(<[^>]+>\s+)?[\w<>\[\],.?]+\s+\w+\s*\(`),
		classes:      regexp.MustCompile(`^((public|private|protected|abstract|final|static|sealed)\s+)*(class|interface|enum|record)\s+\w+`),
		notFunction:  cStatement,
	},
	"javascript": javascript,
	"jsx":        javascript,
	"typescript": typescript,
	"tsx":        typescript,
	"c":          cLang,
	"cpp":        cppLang,
	"csharp": {
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^using\s+(static\s+)?[\w.]+\s*;`),
		functions:    regexp.MustCompile(`^((public|private|protected|internal|static|virtual|override|async|abstract|sealed|extern)\s+)+[\w<>\[\],.?]+\s+\w+\s*\(`),
		classes:      regexp.MustCompile(`^((public|private|protected|internal|static|abstract|sealed|partial)\s+)*(class|interface|struct|record|enum)\s+\w+`),
		notFunction:  cStatement,
	},
	"go": {
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^import\s+[(".\w]`),
		functions:    regexp.MustCompile(`^func\s+(\([^)]*\)\s*)?\w+\s*[\[(]`),
		classes:      regexp.MustCompile(`^type\s+\w+(\[[^\]]*\])?\s+(struct|interface)\b`),
	},
	"rust": {
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^(pub\s+)?use\s+[\w:{]+`),
		functions:    regexp.MustCompile(`^(pub(\([\w:]+\))?\s+)?(const\s+)?(async\s+)?(unsafe\s+)?(extern\s+"\w+"\s+)?fn\s+\w+`),
		classes:      regexp.MustCompile(`^(pub(\([\w:]+\))?\s+)?(struct|enum|trait)\s+\w+`),
	},
	"bash": shell,
	"zsh":  shell,
	"fish": shell,
	"sql": {
		lineComments: []string{"--"},
		blocks:       cStyleBlock,
		functions:    regexp.MustCompile(`(?i)^(CREATE\s+(OR\s+REPLACE\s+)?)?(FUNCTION|PROCEDURE)\s+[\w."]+`),
	},
	"ruby": {
		lineComments: hashComment,
		blocks:       []blockDelim{{"=begin", "=end"}},
		imports:      regexp.MustCompile(`^(require|require_relative|load)[\s(]`),
		functions:    regexp.MustCompile(`^def\s+[\w.?!=]+`),
		classes:      regexp.MustCompile(`^(class|module)\s+[A-Z]\w*`),
	},
	"php": {
		lineComments: []string{"//", "#"},
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^(use\s+[\w\\]+|(require|include)(_once)?[\s(])`),
		functions:    regexp.MustCompile(`^((public|private|protected|static|abstract|final)\s+)*function\s+&?\w+`),
		classes:      regexp.MustCompile(`^((abstract|final|readonly)\s+)*(class|interface|trait|enum)\s+\w+`),
	},
	"kotlin": {
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^import\s+[\w.*]+`),
		functions:    regexp.MustCompile(`^((public|private|protected|internal|override|suspend|inline|open|abstract|operator|infix)\s+)*fun\s+`),
		classes:      regexp.MustCompile(`^((public|private|protected|internal|data|sealed|abstract|open|enum|inner|value)\s+)*(class|interface|object)\s+\w+`),
	},
	"swift": {
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^import\s+\w+`),
		functions:    regexp.MustCompile(`^((public|private|internal|fileprivate|open|static|class|override|mutating|final)\s+)*func\s+\w+`),
		classes:      regexp.MustCompile(`^((public|private|internal|fileprivate|final|open)\s+)*(class|struct|protocol|enum|actor)\s+\w+`),
	},
	"scala": {
		lineComments: slashComment,
		blocks:       cStyleBlock,
		imports:      regexp.MustCompile(`^import\s+[\w.{}]+`),
		functions:    regexp.MustCompile(`^((private|protected|override|final|implicit)\s+)*def\s+\w+`),
		classes:      regexp.MustCompile(`^((case|abstract|sealed|final|implicit)\s+)*(class|object|trait)\s+\w+`),
	},
	"lua": {
		lineComments: []string{"--"},
		blocks:       []blockDelim{{"--[[", "]]"}},
		imports:      regexp.MustCompile(`^(local\s+\w+\s*=\s*)?require[\s(]`),
		functions:    regexp.MustCompile(`^(local\s+)?function\s+[\w.:]+`),
	},
	"perl": {
		lineComments: hashComment,
		blocks:       []blockDelim{{"=pod", "=cut"}, {"=head", "=cut"}},
		imports:      regexp.MustCompile(`^(use|require)\s+[\w:]+`),
		functions:    regexp.MustCompile(`^sub\s+\w+`),
		classes:      regexp.MustCompile(`^package\s+[\w:]+`),
	},
	"r": {
		lineComments: hashComment,
		imports:      regexp.MustCompile(`^(library|require)\(`),
		functions:    regexp.MustCompile(`^[\w.]+\s*(<-|=)\s*function\s*\(`),
		classes:      regexp.MustCompile(`^setClass\(`),
	},
	"powershell": {
		lineComments: hashComment,
		blocks:       []blockDelim{{"<#", "#>"}},
		imports:      regexp.MustCompile(`(?i)^(Import-Module|using\s+module)\s+`),
		functions:    regexp.MustCompile(`(?i)^function\s+[\w-]+`),
		classes:      regexp.MustCompile(`(?i)^class\s+\w+`),
	},
	"html":   markup,
	"vue":    markup,
	"svelte": markup,
	"css":    css,
	"scss":   cssPre,
	"sass":   cssPre,
	"less":   cssPre,
}

func lookupLanguage(highlight string) (*language, bool) {
	l, ok := languages[highlight]
	return l, ok
}
