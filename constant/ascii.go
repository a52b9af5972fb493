package constant

// AsciiArtLogo is the banner shown in the root command help.
const AsciiArtLogo = `
       _    __                 
 _   _| |_ / _|_ __ ___  ___   
| | | | __| |_| '__/ _ \/ _ \  
| |_| | |_|  _| | |  __/  __/  
 \__, |\__|_| |_|  \___|\___|  
 |___/                         `
