package format

// builtins mirrors the formats codedoc has always recognised. Keys are
// extensions, or lowercased file names for extension-less build files.
var builtins = []Descriptor{
	// Programming languages
	{Key: "py", Category: CategoryCode, Name: "Python", Icon: "🐍", Highlight: "python", MIMEType: "text/x-python", Description: "Python source code"},
	{Key: "java", Category: CategoryCode, Name: "Java", Icon: "☕", Highlight: "java", MIMEType: "text/x-java-source", Description: "Java source code"},
	{Key: "js", Category: CategoryCode, Name: "JavaScript", Icon: "🟨", Highlight: "javascript", MIMEType: "text/javascript", Description: "JavaScript source code"},
	{Key: "mjs", Category: CategoryCode, Name: "JavaScript", Icon: "🟨", Highlight: "javascript", MIMEType: "text/javascript", Description: "JavaScript module"},
	{Key: "ts", Category: CategoryCode, Name: "TypeScript", Icon: "🔷", Highlight: "typescript", MIMEType: "text/typescript", Description: "TypeScript source code"},
	{Key: "jsx", Category: CategoryCode, Name: "JSX", Icon: "⚛️", Highlight: "jsx", MIMEType: "text/jsx", Description: "JSX React component"},
	{Key: "tsx", Category: CategoryCode, Name: "TSX", Icon: "⚛️", Highlight: "tsx", MIMEType: "text/tsx", Description: "TSX React component"},
	{Key: "c", Category: CategoryCode, Name: "C", Icon: "🔧", Highlight: "c", MIMEType: "text/x-c", Description: "C source code"},
	{Key: "cpp", Category: CategoryCode, Name: "C++", Icon: "🔧", Highlight: "cpp", MIMEType: "text/x-c++", Description: "C++ source code"},
	{Key: "cc", Category: CategoryCode, Name: "C++", Icon: "🔧", Highlight: "cpp", MIMEType: "text/x-c++", Description: "C++ source code"},
	{Key: "cxx", Category: CategoryCode, Name: "C++", Icon: "🔧", Highlight: "cpp", MIMEType: "text/x-c++", Description: "C++ source code"},
	{Key: "h", Category: CategoryCode, Name: "C Header", Icon: "📋", Highlight: "c", MIMEType: "text/x-c", Description: "C header file"},
	{Key: "hpp", Category: CategoryCode, Name: "C++ Header", Icon: "📋", Highlight: "cpp", MIMEType: "text/x-c++", Description: "C++ header file"},
	{Key: "cs", Category: CategoryCode, Name: "C#", Icon: "💎", Highlight: "csharp", MIMEType: "text/x-csharp", Description: "C# source code"},
	{Key: "go", Category: CategoryCode, Name: "Go", Icon: "🐹", Highlight: "go", MIMEType: "text/x-go", Description: "Go source code"},
	{Key: "rs", Category: CategoryCode, Name: "Rust", Icon: "🦀", Highlight: "rust", MIMEType: "text/x-rust", Description: "Rust source code"},
	{Key: "php", Category: CategoryCode, Name: "PHP", Icon: "🐘", Highlight: "php", MIMEType: "text/x-php", Description: "PHP source code"},
	{Key: "rb", Category: CategoryCode, Name: "Ruby", Icon: "💎", Highlight: "ruby", MIMEType: "text/x-ruby", Description: "Ruby source code"},
	{Key: "swift", Category: CategoryCode, Name: "Swift", Icon: "🦉", Highlight: "swift", MIMEType: "text/x-swift", Description: "Swift source code"},
	{Key: "kt", Category: CategoryCode, Name: "Kotlin", Icon: "🎯", Highlight: "kotlin", MIMEType: "text/x-kotlin", Description: "Kotlin source code"},
	{Key: "scala", Category: CategoryCode, Name: "Scala", Icon: "🎼", Highlight: "scala", MIMEType: "text/x-scala", Description: "Scala source code"},
	{Key: "r", Category: CategoryCode, Name: "R", Icon: "📊", Highlight: "r", MIMEType: "text/x-r", Description: "R source code"},
	{Key: "m", Category: CategoryCode, Name: "MATLAB", Icon: "🧮", Highlight: "matlab", MIMEType: "text/x-matlab", Description: "MATLAB source code"},
	{Key: "pl", Category: CategoryCode, Name: "Perl", Icon: "🐪", Highlight: "perl", MIMEType: "text/x-perl", Description: "Perl source code"},
	{Key: "lua", Category: CategoryCode, Name: "Lua", Icon: "🌙", Highlight: "lua", MIMEType: "text/x-lua", Description: "Lua source code"},
	{Key: "sh", Category: CategoryCode, Name: "Shell", Icon: "🐚", Highlight: "bash", MIMEType: "text/x-shellscript", Description: "Shell script"},
	{Key: "bash", Category: CategoryCode, Name: "Bash", Icon: "🐚", Highlight: "bash", MIMEType: "text/x-shellscript", Description: "Bash script"},
	{Key: "zsh", Category: CategoryCode, Name: "Zsh", Icon: "🐚", Highlight: "zsh", MIMEType: "text/x-shellscript", Description: "Zsh script"},
	{Key: "fish", Category: CategoryCode, Name: "Fish", Icon: "🐠", Highlight: "fish", MIMEType: "text/x-shellscript", Description: "Fish shell script"},
	{Key: "ps1", Category: CategoryCode, Name: "PowerShell", Icon: "🔵", Highlight: "powershell", MIMEType: "text/x-powershell", Description: "PowerShell script"},
	{Key: "sql", Category: CategoryCode, Name: "SQL", Icon: "🗃️", Highlight: "sql", MIMEType: "text/x-sql", Description: "SQL script"},
	{Key: "vim", Category: CategoryCode, Name: "Vim Script", Icon: "📝", Highlight: "vim", MIMEType: "text/x-vim", Description: "Vim script"},
	{Key: "el", Category: CategoryCode, Name: "Emacs Lisp", Icon: "📝", Highlight: "elisp", MIMEType: "text/x-elisp", Description: "Emacs Lisp"},

	// Web
	{Key: "html", Category: CategoryCode, Name: "HTML", Icon: "🌐", Highlight: "html", MIMEType: "text/html", Description: "HTML document"},
	{Key: "htm", Category: CategoryCode, Name: "HTML", Icon: "🌐", Highlight: "html", MIMEType: "text/html", Description: "HTML document"},
	{Key: "css", Category: CategoryCode, Name: "CSS", Icon: "🎨", Highlight: "css", MIMEType: "text/css", Description: "CSS stylesheet"},
	{Key: "scss", Category: CategoryCode, Name: "SCSS", Icon: "🎨", Highlight: "scss", MIMEType: "text/x-scss", Description: "SCSS stylesheet"},
	{Key: "sass", Category: CategoryCode, Name: "Sass", Icon: "🎨", Highlight: "sass", MIMEType: "text/x-sass", Description: "Sass stylesheet"},
	{Key: "less", Category: CategoryCode, Name: "Less", Icon: "🎨", Highlight: "less", MIMEType: "text/x-less", Description: "Less stylesheet"},
	{Key: "vue", Category: CategoryCode, Name: "Vue", Icon: "💚", Highlight: "vue", MIMEType: "text/x-vue", Description: "Vue component"},
	{Key: "svelte", Category: CategoryCode, Name: "Svelte", Icon: "🧡", Highlight: "svelte", MIMEType: "text/x-svelte", Description: "Svelte component"},

	// Structured data
	{Key: "json", Category: CategoryStructured, Name: "JSON", Icon: "📄", Highlight: "json", MIMEType: "application/json", Description: "JSON data"},
	{Key: "xml", Category: CategoryStructured, Name: "XML", Icon: "📜", Highlight: "xml", MIMEType: "application/xml", Description: "XML document"},
	{Key: "yaml", Category: CategoryStructured, Name: "YAML", Icon: "📋", Highlight: "yaml", MIMEType: "text/yaml", Description: "YAML configuration"},
	{Key: "yml", Category: CategoryStructured, Name: "YAML", Icon: "📋", Highlight: "yaml", MIMEType: "text/yaml", Description: "YAML configuration"},
	{Key: "toml", Category: CategoryStructured, Name: "TOML", Icon: "📋", Highlight: "toml", MIMEType: "text/x-toml", Description: "TOML configuration"},
	{Key: "ini", Category: CategoryStructured, Name: "INI", Icon: "⚙️", Highlight: "ini", MIMEType: "text/plain", Description: "INI configuration"},
	{Key: "cfg", Category: CategoryStructured, Name: "Config", Icon: "⚙️", Highlight: "ini", MIMEType: "text/plain", Description: "Configuration file"},
	{Key: "conf", Category: CategoryStructured, Name: "Config", Icon: "⚙️", Highlight: "ini", MIMEType: "text/plain", Description: "Configuration file"},
	{Key: "properties", Category: CategoryStructured, Name: "Properties", Icon: "⚙️", Highlight: "properties", MIMEType: "text/plain", Description: "Properties file"},
	{Key: "pom", Category: CategoryStructured, Name: "Maven POM", Icon: "📦", Highlight: "xml", MIMEType: "application/xml", Description: "Maven POM file"},

	// Documents
	{Key: "md", Category: CategoryDocument, Name: "Markdown", Icon: "📝", Highlight: "markdown", MIMEType: "text/markdown", Description: "Markdown document"},
	{Key: "markdown", Category: CategoryDocument, Name: "Markdown", Icon: "📝", Highlight: "markdown", MIMEType: "text/markdown", Description: "Markdown document"},
	{Key: "rst", Category: CategoryDocument, Name: "reStructuredText", Icon: "📝", Highlight: "rst", MIMEType: "text/x-rst", Description: "reStructuredText document"},
	{Key: "tex", Category: CategoryDocument, Name: "LaTeX", Icon: "📄", Highlight: "latex", MIMEType: "text/x-latex", Description: "LaTeX document"},
	{Key: "adoc", Category: CategoryDocument, Name: "AsciiDoc", Icon: "📝", Highlight: "asciidoc", MIMEType: "text/x-asciidoc", Description: "AsciiDoc document"},
	{Key: "org", Category: CategoryDocument, Name: "Org Mode", Icon: "📝", Highlight: "org", MIMEType: "text/x-org", Description: "Org mode document"},
	{Key: "txt", Category: CategoryDocument, Name: "Plain Text", Icon: "📄", Highlight: "text", MIMEType: "text/plain", Description: "Plain text document"},

	// Templates
	{Key: "expr", Category: CategoryCode, Name: "Expression", Icon: "📝", Highlight: "python", MIMEType: "text/plain", Description: "Expression library"},
	{Key: "j2", Category: CategoryCode, Name: "Jinja2", Icon: "🏷️", Highlight: "jinja2", MIMEType: "text/x-jinja2", Description: "Jinja2 template"},
	{Key: "jinja", Category: CategoryCode, Name: "Jinja2", Icon: "🏷️", Highlight: "jinja2", MIMEType: "text/x-jinja2", Description: "Jinja2 template"},
	{Key: "hbs", Category: CategoryCode, Name: "Handlebars", Icon: "🏷️", Highlight: "handlebars", MIMEType: "text/x-handlebars", Description: "Handlebars template"},
	{Key: "mustache", Category: CategoryCode, Name: "Mustache", Icon: "🏷️", Highlight: "mustache", MIMEType: "text/x-mustache", Description: "Mustache template"},
	{Key: "tmpl", Category: CategoryCode, Name: "Go Template", Icon: "🏷️", Highlight: "go-html-template", MIMEType: "text/plain", Description: "Go text/template"},

	// Build files
	{Key: "dockerfile", Category: CategoryCode, Name: "Dockerfile", Icon: "🐳", Highlight: "dockerfile", MIMEType: "text/x-dockerfile", Description: "Docker configuration"},
	{Key: "makefile", Category: CategoryCode, Name: "Makefile", Icon: "🔨", Highlight: "makefile", MIMEType: "text/x-makefile", Description: "Make configuration"},
	{Key: "cmake", Category: CategoryCode, Name: "CMake", Icon: "🔨", Highlight: "cmake", MIMEType: "text/x-cmake", Description: "CMake configuration"},
	{Key: "gradle", Category: CategoryCode, Name: "Gradle", Icon: "🐘", Highlight: "gradle", MIMEType: "text/x-gradle", Description: "Gradle build script"},
}
