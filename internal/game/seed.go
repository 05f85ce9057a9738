package game

// Catalog returns the built-in storefront catalog. The slice is a fresh copy.
func Catalog() []Game {
	out := make([]Game, len(catalog))
	copy(out, catalog)
	return out
}

var catalog = []Game{
	{ID: "1", Name: "The Legend of Zelda: Breath of the Wild", Genre: "Action", Description: "Explore a vast open world full of shrines, towers and secrets.", Price: 59.99, Image: "/game-images/zelda-botw.jpeg", IsNew: false},
	{ID: "2", Name: "Elden Ring", Genre: "RPG", Description: "Rise, Tarnished, and become an Elden Lord in the Lands Between.", Price: 59.99, Image: "/game-images/elden-ring.jpeg", IsNew: true},
	{ID: "3", Name: "Hades", Genre: "Action", Description: "Battle out of the underworld in this rogue-like dungeon crawler.", Price: 24.99, Image: "/game-images/hades.jpeg", IsNew: false},
	{ID: "4", Name: "Stardew Valley", Genre: "Simulation", Description: "Inherit a farm, grow crops and befriend the townsfolk.", Price: 14.99, Image: "/game-images/stardew-valley.jpeg", IsNew: false},
	{ID: "5", Name: "Celeste", Genre: "Platformer", Description: "Help Madeline survive her inner demons on the climb up Celeste Mountain.", Price: 19.99, Image: "/game-images/celeste.jpeg", IsNew: false},
	{ID: "6", Name: "The Witcher 3: Wild Hunt", Genre: "RPG", Description: "Hunt monsters and search for the child of prophecy.", Price: 39.99, Image: "/game-images/witcher-3.jpeg", IsNew: false},
	{ID: "7", Name: "Zelda: Tears of the Kingdom", Genre: "Adventure", Description: "Take to the skies above Hyrule in the sequel to Breath of the Wild.", Price: 69.99, Image: "/game-images/zelda-totk.jpeg", IsNew: true},
	{ID: "8", Name: "Civilization VI", Genre: "Strategy", Description: "Build an empire to stand the test of time.", Price: 29.99, Image: "/game-images/civ-6.jpeg", IsNew: false},
	{ID: "9", Name: "Forza Horizon 5", Genre: "Racing", Description: "Explore the vibrant landscapes of Mexico behind the wheel.", Price: 59.99, Image: "/game-images/forza-horizon-5.jpeg", IsNew: false},
	{ID: "10", Name: "Portal 2", Genre: "Puzzle", Description: "Think with portals in this co-op puzzle classic.", Price: 9.99, Image: "/game-images/portal-2.jpeg", IsNew: false},
	{ID: "11", Name: "Doom Eternal", Genre: "Shooter", Description: "Rip and tear through the hordes of Hell.", Price: 39.99, Image: "/game-images/doom-eternal.jpeg", IsNew: false},
	{ID: "12", Name: "Hollow Knight", Genre: "Platformer", Description: "Descend into the ruined kingdom of Hallownest.", Price: 14.99, Image: "/game-images/hollow-knight.jpeg", IsNew: false},
	{ID: "13", Name: "Baldur's Gate 3", Genre: "RPG", Description: "Gather your party and return to the Forgotten Realms.", Price: 59.99, Image: "/game-images/baldurs-gate-3.jpeg", IsNew: true},
	{ID: "14", Name: "Red Dead Redemption 2", Genre: "Action", Description: "An epic tale of life in America's unforgiving heartland.", Price: 49.99, Image: "/game-images/rdr2.jpeg", IsNew: false},
	{ID: "15", Name: "EA Sports FC 24", Genre: "Sports", Description: "The world's game, with more than nineteen thousand licensed players.", Price: 69.99, Image: "/game-images/fc-24.jpeg", IsNew: true},
	{ID: "16", Name: "Cities: Skylines", Genre: "Simulation", Description: "Design and run the city of your dreams.", Price: 29.99, Image: "/game-images/cities-skylines.jpeg", IsNew: false},
	{ID: "17", Name: "Overwatch 2", Genre: "Shooter", Description: "Team-based action across a world of heroes.", Price: 0, Image: "/game-images/overwatch-2.jpeg", IsNew: false},
	{ID: "18", Name: "Age of Empires IV", Genre: "Strategy", Description: "Lead civilizations through historic battles.", Price: 39.99, Image: "/game-images/aoe-4.jpeg", IsNew: false},
	{ID: "19", Name: "Tetris Effect: Connected", Genre: "Puzzle", Description: "Tetris like you've never seen it, or heard it, or felt it.", Price: 39.99, Image: "/game-images/tetris-effect.jpeg", IsNew: false},
	{ID: "20", Name: "Gran Turismo 7", Genre: "Racing", Description: "The real driving simulator returns.", Price: 69.99, Image: "/game-images/gran-turismo-7.jpeg", IsNew: true},
	{ID: "21", Name: "Sekiro: Shadows Die Twice", Genre: "Action", Description: "Carve your own clever path to vengeance.", Price: 59.99, Image: "/game-images/sekiro.jpeg", IsNew: false},
	{ID: "22", Name: "It Takes Two", Genre: "Adventure", Description: "A genre-bending co-op adventure built for two.", Price: 39.99, Image: "/game-images/it-takes-two.jpeg", IsNew: false},
	{ID: "23", Name: "NBA 2K24", Genre: "Sports", Description: "Experience basketball culture in the latest 2K release.", Price: 59.99, Image: "/game-images/nba-2k24.jpeg", IsNew: true},
	{ID: "24", Name: "Zelda's Adventure", Genre: "Adventure", Description: "A forgotten curiosity from the CD-i era.", Price: 4.99, Image: "/game-images/zeldas-adventure.jpeg", IsNew: false},
}
