package books

// Shelf is a curated bookshelf reference.
type Shelf struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ShelfGenre groups curated bookshelves under a display genre.
type ShelfGenre struct {
	Genre   string  `json:"genre"`
	Shelves []Shelf `json:"shelves"`
}

// CuratedShelves is the hand-maintained bookshelf taxonomy used to
// build browse feeds. Shelf ids refer to rows in the bookshelves table.
var CuratedShelves = []ShelfGenre{
	{
		Genre: "Literature",
		Shelves: []Shelf{
			{644, "Adventure"},
			{654, "American Literature"},
			{653, "British Literature"},
			{652, "French Literature"},
			{651, "German Literature"},
			{650, "Russian Literature"},
			{649, "Classics of Literature"},
			{643, "Biographies"},
			{645, "Novels"},
			{634, "Short Stories"},
			{637, "Poetry"},
			{642, "Plays/Films/Dramas"},
			{639, "Romance"},
			{638, "Science-Fiction & Fantasy"},
			{640, "Crime, Thrillers & Mystery"},
			{646, "Mythology, Legends & Folklore"},
			{641, "Humour"},
			{636, "Children & Young Adult Reading"},
			{633, "Literature - Other"},
		},
	},
	{
		Genre: "Science & Technology",
		Shelves: []Shelf{
			{671, "Engineering & Technology"},
			{672, "Mathematics"},
			{667, "Science - Physics"},
			{668, "Science - Chemistry/Biochemistry"},
			{669, "Science - Biology"},
			{670, "Science - Earth/Agricultural/Farming"},
			{673, "Research Methods/Statistics/Info Sys"},
			{685, "Environmental Issues"},
		},
	},
	{
		Genre: "History",
		Shelves: []Shelf{
			{656, "History - American"},
			{657, "History - British"},
			{658, "History - European"},
			{659, "History - Ancient"},
			{660, "History - Medieval/Middle Ages"},
			{661, "History - Early Modern (c. 1450-1750)"},
			{662, "History - Modern (1750+)"},
			{663, "History - Religious"},
			{664, "History - Royalty"},
			{665, "History - Warfare"},
			{666, "History - Schools & Universities"},
			{655, "History - Other"},
			{686, "Archaeology & Anthropology"},
		},
	},
	{
		Genre: "Social Sciences & Society",
		Shelves: []Shelf{
			{695, "Business/Management"},
			{696, "Economics"},
			{689, "Law & Criminology"},
			{690, "Gender & Sexuality Studies"},
			{688, "Psychiatry/Psychology"},
			{693, "Sociology"},
			{694, "Politics"},
			{701, "Parenthood & Family Relations"},
			{700, "Old Age & the Elderly"},
		},
	},
	{
		Genre: "Arts & Culture",
		Shelves: []Shelf{
			{675, "Art"},
			{674, "Architecture"},
			{677, "Music"},
			{676, "Fashion"},
			{698, "Journalism/Media/Writing"},
			{687, "Language & Communication"},
			{647, "Essays, Letters & Speeches"},
		},
	},
	{
		Genre: "Religion & Philosophy",
		Shelves: []Shelf{
			{692, "Religion/Spirituality"},
			{691, "Philosophy & Ethics"},
		},
	},
	{
		Genre: "Lifestyle & Hobbies",
		Shelves: []Shelf{
			{678, "Cooking & Drinking"},
			{680, "Sports/Hobbies"},
			{679, "How To ..."},
			{648, "Travel Writing"},
			{683, "Nature/Gardening/Animals"},
			{703, "Sexuality & Erotica"},
		},
	},
	{
		Genre: "Health & Medicine",
		Shelves: []Shelf{
			{681, "Health & Medicine"},
			{682, "Drugs/Alcohol/Pharmacology"},
			{684, "Nutrition"},
		},
	},
	{
		Genre: "Education & Reference",
		Shelves: []Shelf{
			{697, "Encyclopedias/Dictionaries/Reference"},
			{704, "Teaching & Education"},
			{702, "Reports & Conference Proceedings"},
			{699, "Journals"},
		},
	},
}
