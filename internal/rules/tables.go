package rules

import "github.com/cbergh/pyfloor/internal/version"

// Shorthand constructors for the tables below.
func v(major, minor int) version.Ver { return version.V(major, minor) }

func both(maj2, min2, maj3, min3 int) version.Pair {
	return version.P(v(maj2, min2), v(maj3, min3))
}

func only2(major, minor int) version.Pair {
	return version.P(v(major, minor), version.Excluded)
}

func only3(major, minor int) version.Pair {
	return version.P(version.Excluded, v(major, minor))
}

// Default returns the built-in knowledge base. The tables cover the stdlib
// modules, members, and call signatures whose availability is version
// gated; entries follow the CPython changelogs.
func Default() *Ruleset {
	return &Ruleset{
		Modules:             moduleReqs,
		Members:             memberReqs,
		Kwargs:              kwargReqs,
		Strftime:            strftimeReqs,
		ArrayTypecodes:      arrayTypecodeReqs,
		CodecsErrorHandlers: codecsErrorHandlerReqs,
		CodecsEncodings:     codecsEncodings,
		CodecsErrorsIndices: codecsErrorsIndices,
		CodecsEncodingsIndices: codecsEncodingsIndices,
	}
}

var moduleReqs = map[string]version.Pair{
	"abc":             both(2, 6, 3, 0),
	"argparse":        both(2, 7, 3, 2),
	"ast":             both(2, 6, 3, 0),
	"asyncio":         only3(3, 4),
	"bz2":             both(2, 3, 3, 0),
	"collections":     both(2, 4, 3, 0),
	"configparser":    only3(3, 0),
	"ConfigParser":    only2(2, 0),
	"contextlib":      both(2, 5, 3, 0),
	"copy_reg":        only2(2, 0),
	"copyreg":         only3(3, 0),
	"csv":             both(2, 3, 3, 0),
	"ctypes":          both(2, 5, 3, 0),
	"dataclasses":     only3(3, 7),
	"datetime":        both(2, 3, 3, 0),
	"decimal":         both(2, 4, 3, 0),
	"enum":            only3(3, 4),
	"faulthandler":    only3(3, 3),
	"fractions":       both(2, 6, 3, 0),
	"functools":       both(2, 5, 3, 0),
	"hashlib":         both(2, 5, 3, 0),
	"http":            only3(3, 0),
	"httplib":         only2(2, 0),
	"importlib":       both(2, 7, 3, 0),
	"io":              both(2, 6, 3, 0),
	"ipaddress":       only3(3, 3),
	"json":            both(2, 6, 3, 0),
	"lzma":            only3(3, 3),
	"multiprocessing": both(2, 6, 3, 0),
	"numbers":         both(2, 6, 3, 0),
	"pathlib":         only3(3, 4),
	"queue":           only3(3, 0),
	"Queue":           only2(2, 0),
	"repr":            only2(2, 0),
	"reprlib":         only3(3, 0),
	"secrets":         only3(3, 6),
	"selectors":       only3(3, 4),
	"SimpleXMLRPCServer": only2(2, 2),
	"ssl":             both(2, 6, 3, 0),
	"sqlite3":         both(2, 5, 3, 0),
	"statistics":      only3(3, 4),
	"typing":          only3(3, 5),
	"unittest":        both(2, 1, 3, 0),
	"unittest.mock":   only3(3, 3),
	"urllib2":         only2(2, 0),
	"urllib.parse":    only3(3, 0),
	"uuid":            both(2, 5, 3, 0),
	"venv":            only3(3, 3),
	"xmlrpc":          only3(3, 0),
	"zipapp":          only3(3, 5),
	"zoneinfo":        only3(3, 9),
}

var memberReqs = map[string]version.Pair{
	"abc.ABC":                    only3(3, 4),
	"abc.abstractclassmethod":    only3(3, 2),
	"abc.abstractstaticmethod":   only3(3, 2),
	"bz2.BZ2File.writable":       only3(3, 3),
	"collections.Counter":        both(2, 7, 3, 0),
	"collections.OrderedDict":    both(2, 7, 3, 0),
	"collections.ChainMap":       only3(3, 3),
	"contextlib.ExitStack":       only3(3, 3),
	"contextlib.suppress":        only3(3, 4),
	"contextlib.redirect_stdout": only3(3, 4),
	"dict.viewitems":             only2(2, 7),
	"functools.lru_cache":        only3(3, 2),
	"functools.partialmethod":    only3(3, 4),
	"functools.singledispatch":   only3(3, 4),
	"hashlib.algorithms":         only2(2, 7),
	"hashlib.blake2b":            only3(3, 6),
	"hashlib.scrypt":             only3(3, 6),
	"itertools.accumulate":       only3(3, 2),
	"itertools.combinations":     both(2, 6, 3, 0),
	"math.inf":                   only3(3, 5),
	"math.isclose":               only3(3, 5),
	"math.tau":                   only3(3, 6),
	"os.scandir":                 only3(3, 5),
	"os.getrandom":               only3(3, 6),
	"os.fspath":                  only3(3, 6),
	"re.fullmatch":               only3(3, 4),
	"shutil.which":               only3(3, 3),
	"shutil.disk_usage":          only3(3, 3),
	"sys.exc_clear":              only2(2, 3),
	"sys.getdefaultencoding":     both(2, 0, 3, 0),
	"sys.version_info":           both(2, 0, 3, 0),
	"sys.maxint":                 only2(2, 0),
	"time.monotonic":             only3(3, 3),
	"time.perf_counter":          only3(3, 3),
	"types.MappingProxyType":     only3(3, 3),
	"typing.NamedTuple":          only3(3, 5),
}

var kwargReqs = map[Kwarg]version.Pair{
	{"os.open", "dir_fd"}:                  only3(3, 3),
	{"os.remove", "dir_fd"}:                only3(3, 3),
	{"os.rename", "src_dir_fd"}:            only3(3, 3),
	{"os.rename", "dst_dir_fd"}:            only3(3, 3),
	{"os.utime", "follow_symlinks"}:        only3(3, 3),
	{"os.makedirs", "exist_ok"}:            only3(3, 2),
	{"print", "flush"}:                     only3(3, 3),
	{"shutil.copytree", "dirs_exist_ok"}:   only3(3, 8),
	{"subprocess.run", "capture_output"}:   only3(3, 7),
	{"subprocess.run", "text"}:             only3(3, 7),
	{"sorted", "key"}:                      both(2, 4, 3, 0),
	{"xml.etree.ElementTree.tostring", "short_empty_elements"}:     only3(3, 4),
	{"xml.etree.ElementTree.tostringlist", "short_empty_elements"}: only3(3, 4),
}

var strftimeReqs = map[string]version.Pair{
	"%f": both(2, 6, 3, 0),
	"%G": only3(3, 6),
	"%u": only3(3, 6),
	"%V": only3(3, 6),
}

var arrayTypecodeReqs = map[string]version.Pair{
	"q": only3(3, 3),
	"Q": only3(3, 3),
}

var codecsErrorHandlerReqs = map[string]version.Pair{
	"surrogateescape": only3(3, 1),
	"surrogatepass":   only3(3, 1),
	"namereplace":     only3(3, 5),
}

var codecsEncodings = []Encoding{
	{Name: "base64_codec", Aliases: []string{"base64", "base_64"}, Req: only3(3, 4)},
	{Name: "bz2_codec", Aliases: []string{"bz2"}, Req: only3(3, 4)},
	{Name: "hex_codec", Aliases: []string{"hex"}, Req: only3(3, 4)},
	{Name: "quopri_codec", Aliases: []string{"quopri", "quotedprintable", "quoted_printable"}, Req: only3(3, 4)},
	{Name: "uu_codec", Aliases: []string{"uu"}, Req: only3(3, 4)},
	{Name: "zlib_codec", Aliases: []string{"zip", "zlib"}, Req: only3(3, 4)},
	{Name: "cp273", Req: only3(3, 4)},
	{Name: "cp1125", Req: only3(3, 4)},
	{Name: "cp65001", Req: only3(3, 3)},
	{Name: "koi8_t", Req: only3(3, 5)},
	{Name: "kz1048", Aliases: []string{"kz_1048", "strk1048_2002", "rk1048"}, Req: only3(3, 5)},
}

// Positional index of the error-handler argument for functions that take one.
var codecsErrorsIndices = map[string]int{
	"codecs.encode":          2,
	"codecs.decode":          2,
	"codecs.lookup_error":    0,
	"codecs.register_error":  0,
	"bytes.decode":           1,
	"bytearray.decode":       1,
	"str.encode":             1,
}

// Positional indices of encoding-name arguments for functions that take them.
var codecsEncodingsIndices = map[string][]int{
	"codecs.encode":      {1},
	"codecs.decode":      {1},
	"codecs.lookup":      {0},
	"codecs.getencoder":  {0},
	"codecs.getdecoder":  {0},
	"codecs.getreader":   {0},
	"codecs.getwriter":   {0},
	"codecs.open":        {1},
	"codecs.EncodedFile": {1, 2},
	"codecs.iterencode":  {1},
	"codecs.iterdecode":  {1},
	"bytes.decode":       {0},
	"bytearray.decode":   {0},
	"str.encode":         {0},
}
